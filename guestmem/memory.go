package guestmem

import (
	"context"
	"math"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	wspdissect "github.com/wippyai/wsp-dissect"
	"github.com/wippyai/wsp-dissect/errors"
)

// PageSize is the size of one WebAssembly memory page.
const PageSize = 65536

// Memory adapts wazero linear memory to wspdissect.Memory.
type Memory struct {
	mem api.Memory
}

var _ wspdissect.Memory = (*Memory)(nil)

// Wrap returns nil when mem is nil.
func Wrap(mem api.Memory) *Memory {
	if mem == nil {
		return nil
	}
	return &Memory{mem: mem}
}

// Read returns a view of guest memory. The slice aliases the guest's
// memory and is invalidated when the guest grows it.
func (m *Memory) Read(offset, length int) ([]byte, error) {
	if offset < 0 || length < 0 || uint64(offset) > math.MaxUint32 || uint64(length) > math.MaxUint32 {
		return nil, errors.OutOfBounds(errors.PhaseDecode, nil, offset, length, m.Size())
	}
	data, ok := m.mem.Read(uint32(offset), uint32(length))
	if !ok {
		return nil, errors.OutOfBounds(errors.PhaseDecode, nil, offset, length, m.Size())
	}
	return data, nil
}

// Write copies data into guest memory at offset.
func (m *Memory) Write(offset int, data []byte) error {
	if offset < 0 || uint64(offset) > math.MaxUint32 || !m.mem.Write(uint32(offset), data) {
		return errors.New(errors.PhaseEncode, errors.KindOutOfBounds).
			At(offset).
			Detail("write of %d bytes (size %d)", len(data), m.Size()).
			Build()
	}
	return nil
}

func (m *Memory) Size() int {
	return int(m.mem.Size())
}

// Scratch is a runtime holding a module that only exports a memory. It
// gives tools a guest address space without a guest program.
type Scratch struct {
	rt  wazero.Runtime
	mod api.Module
	mem *Memory
}

// NewScratch instantiates a module exporting "memory" with the given
// number of pages.
func NewScratch(ctx context.Context, pages uint32) (*Scratch, error) {
	if pages == 0 || pages > 65536 {
		return nil, errors.InvalidInput(errors.PhaseConfig, "scratch memory needs 1 to 65536 pages")
	}

	rt := wazero.NewRuntime(ctx)
	compiled, err := rt.CompileModule(ctx, memoryModule(pages))
	if err != nil {
		_ = rt.Close(ctx)
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "compile scratch module")
	}
	mod, err := rt.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithName("scratch"))
	if err != nil {
		_ = rt.Close(ctx)
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "instantiate scratch module")
	}
	return &Scratch{rt: rt, mod: mod, mem: Wrap(mod.Memory())}, nil
}

// Memory returns the scratch module's memory.
func (s *Scratch) Memory() *Memory { return s.mem }

// Load copies data to offset and returns the memory for decoding.
func (s *Scratch) Load(offset int, data []byte) (*Memory, error) {
	if err := s.mem.Write(offset, data); err != nil {
		return nil, err
	}
	return s.mem, nil
}

// Close releases the runtime.
func (s *Scratch) Close(ctx context.Context) error {
	return s.rt.Close(ctx)
}

// memoryModule encodes (module (memory (export "memory") pages)).
func memoryModule(pages uint32) []byte {
	limits := append([]byte{0x00}, uleb128(pages)...)
	memSec := append([]byte{0x01}, limits...)

	name := "memory"
	exportSec := []byte{0x01, byte(len(name))}
	exportSec = append(exportSec, name...)
	exportSec = append(exportSec, 0x02, 0x00)

	out := []byte{0x00, 'a', 's', 'm', 0x01, 0x00, 0x00, 0x00}
	out = append(out, 0x05, byte(len(memSec)))
	out = append(out, memSec...)
	out = append(out, 0x07, byte(len(exportSec)))
	out = append(out, exportSec...)
	return out
}

func uleb128(v uint32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7F)
		v >>= 7
		if v != 0 {
			out = append(out, b|0x80)
			continue
		}
		return append(out, b)
	}
}
