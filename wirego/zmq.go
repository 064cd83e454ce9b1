package wirego

import (
	"context"
	"encoding/binary"
	"fmt"

	zmq "github.com/go-zeromq/zmq4"
	"go.uber.org/zap"

	"github.com/wippyai/wsp-dissect/errors"
)

type command func(frames [][]byte) ([][]byte, error)

// Listen answers bridge requests until ctx is cancelled or the socket
// fails. Cancellation closes the socket and returns nil.
func (wg *Wirego) Listen(ctx context.Context) error {
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			wg.logger.Warn("stopping")
			_ = wg.socket.Close()
		case <-stop:
		}
	}()

	dispatcher := map[string]command{
		// utility commands, not forwarded to the listener
		"ping":    wg.processPing,
		"version": wg.processVersion,

		"get_name":                wg.processGetName,
		"get_plugin_filter":       wg.processGetFilter,
		"get_fields_count":        wg.processGetFieldsCount,
		"get_field":               wg.processGetField,
		"detect_int":              wg.processDetectInt,
		"detect_string":           wg.processDetectString,
		"detect_heuristic_parent": wg.processDetectHeuristicParent,
		"detection_heuristic":     wg.processDetectionHeuristic,
		"dissect_packet":          wg.processDissectPacket,
		"result_get_protocol":     wg.processResultGetProtocol,
		"result_get_info":         wg.processResultGetInfo,
		"result_get_fields_count": wg.processResultGetFieldsCount,
		"result_get_field":        wg.processResultGetField,
		"result_release":          wg.processResultRelease,
	}

	wg.logger.Info("ready, waiting for bridge commands")
	for {
		msg, err := wg.socket.Recv()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return errors.Transport("receive", err)
		}
		if len(msg.Frames) == 0 {
			continue
		}

		cmd := cString(msg.Frames[0])
		reply := [][]byte{{0x00}}
		if cb, ok := dispatcher[cmd]; !ok {
			wg.logger.Error("unknown command", zap.String("command", cmd))
		} else {
			wg.logger.Debug("processing", zap.String("command", cmd))
			frames, err := cb(msg.Frames[1:])
			if err != nil {
				wg.logger.Warn("command failed", zap.String("command", cmd), zap.Error(err))
			} else {
				reply = append([][]byte{{0x01}}, frames...)
			}
		}

		if err := wg.socket.Send(zmq.NewMsgFrom(reply...)); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return errors.Transport("send", err)
		}
	}
}

// cString drops one trailing NUL if present.
func cString(frame []byte) string {
	if n := len(frame); n > 0 && frame[n-1] == 0 {
		frame = frame[:n-1]
	}
	return string(frame)
}

func cStringFrame(s string) []byte {
	return append([]byte(s), 0)
}

func u32Frame(v uint32) []byte {
	return binary.LittleEndian.AppendUint32(nil, v)
}

func argU32(frames [][]byte, i int) (uint32, error) {
	if i >= len(frames) {
		return 0, errors.Transport(fmt.Sprintf("missing argument %d", i), nil)
	}
	if len(frames[i]) != 4 {
		return 0, errors.Transport(fmt.Sprintf("argument %d is %d bytes, want 4", i, len(frames[i])), nil)
	}
	return binary.LittleEndian.Uint32(frames[i]), nil
}

func argIndex(frames [][]byte, n int) (int, error) {
	v, err := argU32(frames, 0)
	if err != nil {
		return 0, err
	}
	if int(v) >= n {
		return 0, errors.NotFound(errors.PhaseTransport, "index", fmt.Sprint(v))
	}
	return int(v), nil
}
