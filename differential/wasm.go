package differential

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"go.uber.org/zap"
)

// Reference module ABI.
const (
	ExportAlloc   = "alloc"
	ExportEncode  = "encode"
	ExportDealloc = "dealloc"

	statusOK       = 0
	statusRejected = 1
)

// deallocNames are the optional free exports, searched in order. Each takes
// (ptr, len i32) and returns nothing.
var deallocNames = []string{ExportDealloc, "free", "deallocate"}

// WasmConfig holds configuration for the hosted reference.
type WasmConfig struct {
	// MemoryLimitPages caps the module's linear memory in 64KB pages.
	// 0 means the wazero default.
	MemoryLimitPages uint32
}

// WasmReference is a Reference backed by a WebAssembly module. Calls are
// serialised; a module instance is single-threaded.
//
// Each Encode allocates the value text in guest memory and receives a
// guest-owned result frame. Both are handed back through the module's
// dealloc export after the call. A module without one grows its memory on
// every call until MemoryLimitPages is reached.
type WasmReference struct {
	runtime   wazero.Runtime
	mod       api.Module
	alloc     api.Function
	encode    api.Function
	dealloc   api.Function // optional
	schemaPtr uint32
	schemaLen uint32
	mu        sync.Mutex
}

// NewWasmReference instantiates wasmBytes and copies schemaJSON into its
// memory once.
func NewWasmReference(ctx context.Context, wasmBytes, schemaJSON []byte) (*WasmReference, error) {
	return NewWasmReferenceWithConfig(ctx, wasmBytes, schemaJSON, nil)
}

// NewWasmReferenceWithConfig is NewWasmReference with custom configuration.
func NewWasmReferenceWithConfig(ctx context.Context, wasmBytes, schemaJSON []byte, cfg *WasmConfig) (*WasmReference, error) {
	runtimeCfg := wazero.NewRuntimeConfig()
	if cfg != nil && cfg.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
	}
	rt := wazero.NewRuntimeWithConfig(ctx, runtimeCfg)

	// wasip1 builds import WASI functions even when they never call them.
	if _, err := wasi_snapshot_preview1.Instantiate(ctx, rt); err != nil {
		rt.Close(ctx)
		return nil, fmt.Errorf("instantiate wasi: %w", err)
	}

	compiled, err := rt.CompileModule(ctx, wasmBytes)
	if err != nil {
		rt.Close(ctx)
		return nil, fmt.Errorf("compile failed: %w", err)
	}
	mod, err := rt.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithName("reference").WithStartFunctions())
	if err != nil {
		rt.Close(ctx)
		return nil, fmt.Errorf("instantiate failed: %w", err)
	}

	ref := &WasmReference{
		runtime: rt,
		mod:     mod,
		alloc:   mod.ExportedFunction(ExportAlloc),
		encode:  mod.ExportedFunction(ExportEncode),
	}
	for _, export := range deallocNames {
		if fn := mod.ExportedFunction(export); fn != nil {
			ref.dealloc = fn
			break
		}
	}
	switch {
	case ref.alloc == nil:
		err = fmt.Errorf("module does not export %q", ExportAlloc)
	case ref.encode == nil:
		err = fmt.Errorf("module does not export %q", ExportEncode)
	case mod.Memory() == nil:
		err = fmt.Errorf("module does not export memory")
	}
	if err == nil {
		ref.schemaPtr, ref.schemaLen, err = ref.write(ctx, schemaJSON)
	}
	if err != nil {
		rt.Close(ctx)
		return nil, err
	}

	Logger().Debug("reference module loaded",
		zap.Int("wasm_bytes", len(wasmBytes)),
		zap.Int("schema_bytes", len(schemaJSON)))
	return ref, nil
}

// Encode implements Reference.
func (r *WasmReference) Encode(ctx context.Context, index int, value any) ([]byte, error) {
	text, err := json.Marshal(jsonValue(value))
	if err != nil {
		return nil, fmt.Errorf("marshal value: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	ptr, n, err := r.write(ctx, text)
	if err != nil {
		return nil, err
	}
	defer r.free(ctx, ptr, n)

	results, err := r.encode.Call(ctx,
		uint64(r.schemaPtr), uint64(r.schemaLen),
		uint64(ptr), uint64(n),
		uint64(uint32(index)))
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", ExportEncode, err)
	}
	if len(results) != 1 {
		return nil, fmt.Errorf("%s returned %d results", ExportEncode, len(results))
	}

	framePtr, frameLen := uint32(results[0]>>32), uint32(results[0])
	defer r.free(ctx, framePtr, frameLen)

	frame, ok := r.mod.Memory().Read(framePtr, frameLen)
	if !ok {
		return nil, fmt.Errorf("result frame [%d, +%d) out of memory bounds", framePtr, frameLen)
	}
	if len(frame) == 0 {
		return nil, fmt.Errorf("empty result frame")
	}

	switch frame[0] {
	case statusOK:
		return append([]byte(nil), frame[1:]...), nil
	case statusRejected:
		return nil, fmt.Errorf("%w: %s", ErrRejected, string(frame[1:]))
	default:
		return nil, fmt.Errorf("result frame status %d", frame[0])
	}
}

// Close releases the module and its runtime.
func (r *WasmReference) Close(ctx context.Context) error {
	return r.runtime.Close(ctx)
}

func (r *WasmReference) write(ctx context.Context, data []byte) (uint32, uint32, error) {
	results, err := r.alloc.Call(ctx, uint64(len(data)))
	if err != nil {
		return 0, 0, fmt.Errorf("call %s: %w", ExportAlloc, err)
	}
	if len(results) != 1 {
		return 0, 0, fmt.Errorf("%s returned %d results", ExportAlloc, len(results))
	}
	ptr := uint32(results[0])
	if !r.mod.Memory().Write(ptr, data) {
		return 0, 0, fmt.Errorf("write %d bytes at %d: out of memory bounds", len(data), ptr)
	}
	return ptr, uint32(len(data)), nil
}

// free returns a region to the module. Failures only leak guest memory.
func (r *WasmReference) free(ctx context.Context, ptr, n uint32) {
	if r.dealloc == nil {
		return
	}
	if _, err := r.dealloc.Call(ctx, uint64(ptr), uint64(n)); err != nil {
		Logger().Debug("reference dealloc failed",
			zap.Uint32("ptr", ptr),
			zap.Uint32("len", n),
			zap.Error(err))
	}
}

// jsonValue rewrites byte slices as number lists; encoding/json would
// otherwise emit them as base64 strings.
func jsonValue(v any) any {
	switch value := v.(type) {
	case []byte:
		out := make([]any, len(value))
		for i, b := range value {
			out[i] = b
		}
		return out
	case []any:
		out := make([]any, len(value))
		for i, e := range value {
			out[i] = jsonValue(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(value))
		for k, e := range value {
			out[k] = jsonValue(e)
		}
		return out
	default:
		return v
	}
}
