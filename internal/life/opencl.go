//go:build opencl

package life

import (
	"errors"
	"fmt"
	"strings"
	"unsafe"

	"github.com/jgillich/go-opencl/cl"
)

// CLSim steps the grid on an OpenCL device. Cells travel as float32 (0 or 1)
// through a staging buffer; batched generations swap the two device buffers
// without touching the host, so a batch costs one upload and one readback.
type CLSim struct {
	grid       *Grid
	context    *cl.Context
	queue      *cl.CommandQueue
	program    *cl.Program
	kernel     *cl.Kernel
	currBuf    *cl.MemObject
	nextBuf    *cl.MemObject
	boundCurr  *cl.MemObject
	boundNext  *cl.MemObject
	staging    []float32
	deviceName string
	generation uint64
}

const lifeKernelSource = `__kernel void life_step(
    const int rows,
    const int cols,
    __global const float* curr,
    __global float* next_buffer)
{
    int idx = get_global_id(0);
    int size = rows * cols;
    if (idx >= size) {
        return;
    }
    int col = idx % cols;
    int row = idx / cols;
    float n = 0.0f;
    for (int dr = -1; dr <= 1; dr++) {
        for (int dc = -1; dc <= 1; dc++) {
            if (dr == 0 && dc == 0) {
                continue;
            }
            int r = row + dr;
            int c = col + dc;
            if (r < 0 || r >= rows || c < 0 || c >= cols) {
                continue;
            }
            n += curr[r * cols + c];
        }
    }
    float alive = curr[idx];
    if ((alive > 0.5f && n == 2.0f) || n == 3.0f) {
        next_buffer[idx] = 1.0f;
    } else {
        next_buffer[idx] = 0.0f;
    }
}`

// NewCLSim locates an OpenCL device (GPU preferred, CPU fallback), compiles
// the life kernel, and allocates the device buffers for the grid.
func NewCLSim(g *Grid) (*CLSim, error) {
	platforms, err := cl.GetPlatforms()
	if err != nil {
		msg := "querying OpenCL platforms"
		if strings.Contains(err.Error(), "-1001") {
			msg += ": no ICD loader reported any platforms; install OpenCL drivers and verify with `clinfo`"
		}
		return nil, fmt.Errorf("%s: %w", msg, err)
	}
	if len(platforms) == 0 {
		return nil, errors.New("no OpenCL platforms available; ensure a vendor driver is installed and detected by `clinfo`")
	}
	var device *cl.Device
	for _, p := range platforms {
		devices, derr := p.GetDevices(cl.DeviceTypeGPU)
		if derr != nil && derr != cl.ErrDeviceNotFound {
			continue
		}
		if len(devices) > 0 {
			device = devices[0]
			break
		}
	}
	if device == nil {
		for _, p := range platforms {
			devices, derr := p.GetDevices(cl.DeviceTypeCPU)
			if derr != nil && derr != cl.ErrDeviceNotFound {
				continue
			}
			if len(devices) > 0 {
				device = devices[0]
				break
			}
		}
	}
	if device == nil {
		return nil, errors.New("no suitable OpenCL devices found")
	}

	context, err := cl.CreateContext([]*cl.Device{device})
	if err != nil {
		return nil, fmt.Errorf("creating OpenCL context: %w", err)
	}
	queue, err := context.CreateCommandQueue(device, 0)
	if err != nil {
		context.Release()
		return nil, fmt.Errorf("creating OpenCL command queue: %w", err)
	}
	program, err := context.CreateProgramWithSource([]string{lifeKernelSource})
	if err != nil {
		queue.Release()
		context.Release()
		return nil, fmt.Errorf("creating OpenCL program: %w", err)
	}
	if err := program.BuildProgram([]*cl.Device{device}, ""); err != nil {
		program.Release()
		queue.Release()
		context.Release()
		if buildErr, ok := err.(cl.BuildError); ok {
			return nil, fmt.Errorf("building OpenCL program: %s", string(buildErr))
		}
		return nil, fmt.Errorf("building OpenCL program: %w", err)
	}
	kernel, err := program.CreateKernel("life_step")
	if err != nil {
		program.Release()
		queue.Release()
		context.Release()
		return nil, fmt.Errorf("creating life kernel: %w", err)
	}
	size := g.rows * g.cols
	byteSize := size * int(unsafe.Sizeof(float32(0)))
	currBuf, err := context.CreateEmptyBuffer(cl.MemReadWrite, byteSize)
	if err != nil {
		kernel.Release()
		program.Release()
		queue.Release()
		context.Release()
		return nil, fmt.Errorf("allocating current buffer: %w", err)
	}
	nextBuf, err := context.CreateEmptyBuffer(cl.MemReadWrite, byteSize)
	if err != nil {
		currBuf.Release()
		kernel.Release()
		program.Release()
		queue.Release()
		context.Release()
		return nil, fmt.Errorf("allocating next buffer: %w", err)
	}

	sim := &CLSim{
		grid:       g,
		context:    context,
		queue:      queue,
		program:    program,
		kernel:     kernel,
		currBuf:    currBuf,
		nextBuf:    nextBuf,
		staging:    make([]float32, size),
		deviceName: device.Name(),
	}
	if err := sim.kernel.SetArgs(
		int32(g.rows),
		int32(g.cols),
		sim.currBuf,
		sim.nextBuf,
	); err != nil {
		sim.Close()
		return nil, fmt.Errorf("setting kernel arguments: %w", err)
	}
	sim.boundCurr = sim.currBuf
	sim.boundNext = sim.nextBuf
	return sim, nil
}

// Grid returns the simulated grid.
func (s *CLSim) Grid() *Grid { return s.grid }

// Generation reports how many steps have completed.
func (s *CLSim) Generation() uint64 { return s.generation }

// DeviceName reports the OpenCL device the kernel runs on.
func (s *CLSim) DeviceName() string { return s.deviceName }

// bindBuffers rebinds the kernel's buffer arguments after a device-side
// swap, skipping binds that are already current.
func (s *CLSim) bindBuffers() error {
	if s.boundCurr != s.currBuf {
		if err := s.kernel.SetArgBuffer(2, s.currBuf); err != nil {
			return err
		}
		s.boundCurr = s.currBuf
	}
	if s.boundNext != s.nextBuf {
		if err := s.kernel.SetArgBuffer(3, s.nextBuf); err != nil {
			return err
		}
		s.boundNext = s.nextBuf
	}
	return nil
}

// Step advances the grid by one generation on the device.
func (s *CLSim) Step() error {
	return s.StepBatch(1)
}

// StepBatch runs count generations with a single host round trip: upload the
// current cells, enqueue count kernel launches with device-side buffer
// swaps in between, then read the final state back into the grid.
func (s *CLSim) StepBatch(count int) error {
	if count <= 0 {
		return nil
	}
	g := s.grid
	for i, cell := range g.curr {
		s.staging[i] = float32(cell)
	}
	if _, err := s.queue.EnqueueWriteBufferFloat32(s.currBuf, false, 0, s.staging, nil); err != nil {
		return fmt.Errorf("writing current buffer: %w", err)
	}
	global := []int{len(s.staging)}
	for i := 0; i < count; i++ {
		if err := s.bindBuffers(); err != nil {
			return fmt.Errorf("binding buffers: %w", err)
		}
		if _, err := s.queue.EnqueueNDRangeKernel(s.kernel, nil, global, nil, nil); err != nil {
			return fmt.Errorf("enqueueing life kernel: %w", err)
		}
		s.currBuf, s.nextBuf = s.nextBuf, s.currBuf
	}
	if _, err := s.queue.EnqueueReadBufferFloat32(s.currBuf, true, 0, s.staging, nil); err != nil {
		return fmt.Errorf("reading current buffer: %w", err)
	}
	for i, v := range s.staging {
		if v > 0.5 {
			g.curr[i] = 1
		} else {
			g.curr[i] = 0
		}
	}
	s.generation += uint64(count)
	return nil
}

// Close releases every OpenCL object the simulation owns.
func (s *CLSim) Close() {
	if s.nextBuf != nil {
		s.nextBuf.Release()
		s.nextBuf = nil
	}
	if s.currBuf != nil {
		s.currBuf.Release()
		s.currBuf = nil
	}
	if s.kernel != nil {
		s.kernel.Release()
		s.kernel = nil
	}
	if s.program != nil {
		s.program.Release()
		s.program = nil
	}
	if s.queue != nil {
		s.queue.Release()
		s.queue = nil
	}
	if s.context != nil {
		s.context.Release()
		s.context = nil
	}
}
