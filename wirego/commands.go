package wirego

import (
	"fmt"

	"github.com/wippyai/wsp-dissect/errors"
)

func (wg *Wirego) processPing([][]byte) ([][]byte, error) {
	return nil, nil
}

func (wg *Wirego) processVersion([][]byte) ([][]byte, error) {
	return [][]byte{{VersionMajor}, {VersionMinor}}, nil
}

func (wg *Wirego) processGetName([][]byte) ([][]byte, error) {
	return [][]byte{cStringFrame(wg.listener.GetName())}, nil
}

func (wg *Wirego) processGetFilter([][]byte) ([][]byte, error) {
	return [][]byte{cStringFrame(wg.listener.GetFilter())}, nil
}

func (wg *Wirego) processGetFieldsCount([][]byte) ([][]byte, error) {
	return [][]byte{u32Frame(uint32(len(wg.fields)))}, nil
}

func (wg *Wirego) processGetField(args [][]byte) ([][]byte, error) {
	idx, err := argIndex(args, len(wg.fields))
	if err != nil {
		return nil, err
	}
	f := wg.fields[idx]
	return [][]byte{
		u32Frame(uint32(f.WiregoFieldId)),
		cStringFrame(f.Name),
		cStringFrame(f.Filter),
		u32Frame(uint32(f.ValueType)),
		u32Frame(uint32(f.DisplayMode)),
	}, nil
}

func (wg *Wirego) processDetectInt(args [][]byte) ([][]byte, error) {
	idx, err := argIndex(args, len(wg.intFilters))
	if err != nil {
		return nil, err
	}
	d := wg.intFilters[idx]
	return [][]byte{cStringFrame(d.Name), u32Frame(uint32(d.ValueInt))}, nil
}

func (wg *Wirego) processDetectString(args [][]byte) ([][]byte, error) {
	idx, err := argIndex(args, len(wg.stringFilters))
	if err != nil {
		return nil, err
	}
	d := wg.stringFilters[idx]
	return [][]byte{cStringFrame(d.Name), cStringFrame(d.ValueString)}, nil
}

func (wg *Wirego) processDetectHeuristicParent(args [][]byte) ([][]byte, error) {
	idx, err := argIndex(args, len(wg.heuristicParent))
	if err != nil {
		return nil, err
	}
	return [][]byte{cStringFrame(wg.heuristicParent[idx])}, nil
}

// packet holds the arguments shared by detection_heuristic and
// dissect_packet: number, source, destination, layer stack, payload.
type packet struct {
	number   int
	src, dst string
	layer    string
	data     []byte
}

func parsePacket(args [][]byte) (packet, error) {
	if len(args) != 5 {
		return packet{}, errors.Transport(fmt.Sprintf("packet request has %d arguments, want 5", len(args)), nil)
	}
	n, err := argU32(args, 0)
	if err != nil {
		return packet{}, err
	}
	if len(args[4]) == 0 {
		return packet{}, errors.InvalidInput(errors.PhaseTransport, "empty packet")
	}
	return packet{
		number: int(n),
		src:    cString(args[1]),
		dst:    cString(args[2]),
		layer:  cString(args[3]),
		data:   args[4],
	}, nil
}

func (wg *Wirego) processDetectionHeuristic(args [][]byte) ([][]byte, error) {
	p, err := parsePacket(args)
	if err != nil {
		return nil, err
	}
	var detected byte
	if wg.listener.DetectionHeuristic(p.number, p.src, p.dst, p.layer, p.data) {
		detected = 1
	}
	return [][]byte{{detected}}, nil
}

// processDissectPacket answers with a handle for the result_* commands. The
// handle is the packet number.
func (wg *Wirego) processDissectPacket(args [][]byte) ([][]byte, error) {
	p, err := parsePacket(args)
	if err != nil {
		return nil, err
	}
	handle := u32Frame(uint32(p.number))

	wg.mu.Lock()
	_, cached := wg.results[p.number]
	wg.mu.Unlock()
	if cached {
		return [][]byte{handle}, nil
	}

	result := wg.listener.DissectPacket(p.number, p.src, p.dst, p.layer, p.data)
	if result == nil {
		return nil, errors.InvalidData(errors.PhaseValidate, []string{"result"}, "listener returned no result")
	}
	flat, err := flatten(result, len(p.data), wg.fieldIDs)
	if err != nil {
		return nil, err
	}

	wg.mu.Lock()
	wg.results[p.number] = flat
	wg.mu.Unlock()
	return [][]byte{handle}, nil
}

func (wg *Wirego) result(args [][]byte) (*flatResult, error) {
	h, err := argU32(args, 0)
	if err != nil {
		return nil, err
	}
	wg.mu.Lock()
	defer wg.mu.Unlock()
	r, ok := wg.results[int(h)]
	if !ok {
		return nil, errors.NotFound(errors.PhaseTransport, "result", fmt.Sprint(h))
	}
	return r, nil
}

func (wg *Wirego) processResultGetProtocol(args [][]byte) ([][]byte, error) {
	r, err := wg.result(args)
	if err != nil {
		return nil, err
	}
	return [][]byte{cStringFrame(r.protocol)}, nil
}

func (wg *Wirego) processResultGetInfo(args [][]byte) ([][]byte, error) {
	r, err := wg.result(args)
	if err != nil {
		return nil, err
	}
	return [][]byte{cStringFrame(r.info)}, nil
}

func (wg *Wirego) processResultGetFieldsCount(args [][]byte) ([][]byte, error) {
	r, err := wg.result(args)
	if err != nil {
		return nil, err
	}
	return [][]byte{u32Frame(uint32(len(r.fields)))}, nil
}

// processResultGetField replies with parent index (-1 as 0xFFFFFFFF),
// field id, offset and length.
func (wg *Wirego) processResultGetField(args [][]byte) ([][]byte, error) {
	r, err := wg.result(args)
	if err != nil {
		return nil, err
	}
	idx, err := argIndex(args[1:], len(r.fields))
	if err != nil {
		return nil, err
	}
	f := r.fields[idx]
	return [][]byte{
		u32Frame(uint32(int32(f.parentIdx))),
		u32Frame(uint32(f.fieldID)),
		u32Frame(uint32(f.offset)),
		u32Frame(uint32(f.length)),
	}, nil
}

func (wg *Wirego) processResultRelease(args [][]byte) ([][]byte, error) {
	h, err := argU32(args, 0)
	if err != nil {
		return nil, err
	}
	wg.mu.Lock()
	defer wg.mu.Unlock()
	if !wg.cacheEnabled {
		delete(wg.results, int(h))
	}
	return nil, nil
}
