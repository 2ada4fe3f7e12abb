package renderer

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/anima/common"
	"github.com/cogentcore/webgpu/wgpu"
)

var errNoPipeline = errors.New("point pipeline not registered")

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat        *wgpu.TextureFormat
	msaaTextureView      *wgpu.TextureView
	depthTextureView     *wgpu.TextureView
	renderPassDescriptor *wgpu.RenderPassDescriptor
	clearColor           wgpu.Color

	presentMode wgpu.PresentMode // defaults to PresentModeImmediate (Uncapped)
	sampleCount MSAASampleCount  // MSAA sample count for the main render pass

	// Point pipeline resources
	pointPipeline  *wgpu.RenderPipeline
	uniformBuffer  *wgpu.Buffer
	bindGroup      *wgpu.BindGroup
	positionBuffer *wgpu.Buffer
	sizeBuffer     *wgpu.Buffer
	pointCapacity  int
	pointCount     int

	// Frame state between BeginFrame and Present
	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
}

type wgpuRendererBackend interface {
	// ConfigureSurface is a wrapper for boilerplate logic required when calling ConfigureSurface on a surface.
	// This is required when the surface size changes, such as when the window is resized.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	ConfigureSurface(width, height int)

	// SetPresentMode sets the surface present mode which controls how frames are delivered to the display.
	//
	// Parameters:
	//   - mode: the PresentMode to use (VSync or Uncapped)
	SetPresentMode(mode PresentMode)

	// SetClearColor sets the colour the render pass clears to.
	//
	// Parameters:
	//   - color: RGBA in [0, 1]
	SetClearColor(color [4]float64)

	// RegisterPointPipeline compiles the point shader and creates the pipeline, its uniform
	// buffer and bind group. ConfigureSurface must have been called first.
	//
	// Parameters:
	//   - source: WGSL source with vs_main and fs_main entry points
	//   - blend: the colour blend mode
	//
	// Returns:
	//   - error: an error if any GPU object could not be created
	RegisterPointPipeline(source string, blend BlendMode) error

	// WritePoints uploads instance data, growing the vertex buffers when the point count exceeds
	// their capacity.
	//
	// Parameters:
	//   - positions: xyz per point
	//   - sizes: one size per point
	//
	// Returns:
	//   - error: an error if the buffers could not be (re)created
	WritePoints(positions, sizes []float32) error

	// WriteUniforms uploads the uniform block.
	//
	// Parameters:
	//   - uniforms: the block for this frame
	WriteUniforms(uniforms *GPUPointUniforms)

	// BeginFrame acquires the next swapchain texture, creates a command encoder, and begins
	// the main render pass. Must be paired with EndFrame.
	//
	// Returns:
	//   - error: an error if the swapchain texture could not be acquired
	BeginFrame() error

	// DrawPoints encodes one instanced draw of every uploaded point.
	//
	// Returns:
	//   - error: errNoPipeline if RegisterPointPipeline has not succeeded
	DrawPoints() error

	// EndFrame ends the current render pass and submits the command buffer to the GPU.
	EndFrame()

	// Present presents the acquired surface texture to the display.
	Present()

	// Release frees every GPU object owned by the backend.
	Release()
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool, sampleCount MSAASampleCount) wgpuRendererBackend {
	runtime.LockOSThread()
	w := &wgpuRendererBackendImpl{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeImmediate,
		sampleCount: sampleCount,
		clearColor:  wgpu.Color{R: 0, G: 0, B: 0, A: 1},
	}
	w.surface = w.instance.CreateSurface(surfaceDescriptor)

	a, err := w.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    w.surface,
	})
	if err != nil {
		panic(err)
	}
	w.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		panic(err)
	}
	w.device = d
	w.queue = d.GetQueue()

	return w
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if width <= 0 || height <= 0 {
		// minimised; keep the previous configuration until a real size arrives
		return
	}

	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surfaceFormat = &capabilities.Formats[0]

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      *b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	count := uint32(b.sampleCount)
	msaaEnabled := count > 1

	if b.msaaTextureView != nil {
		b.msaaTextureView.Release()
		b.msaaTextureView = nil
	}
	if msaaEnabled {
		// The render pass draws into the MSAA texture and resolves into the swapchain view.
		msaaTexture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
			Label: "MSAA Texture",
			Size: wgpu.Extent3D{
				Width:              uint32(width),
				Height:             uint32(height),
				DepthOrArrayLayers: 1,
			},
			MipLevelCount: 1,
			SampleCount:   count,
			Dimension:     wgpu.TextureDimension2D,
			Format:        *b.surfaceFormat,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			panic(err)
		}
		b.msaaTextureView, err = msaaTexture.CreateView(nil)
		if err != nil {
			panic(err)
		}
	}

	// Depth texture sample count must match the color attachment.
	if b.depthTextureView != nil {
		b.depthTextureView.Release()
	}
	depthTexture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Depth Texture",
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   count,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		panic(err)
	}
	b.depthTextureView, err = depthTexture.CreateView(nil)
	if err != nil {
		panic(err)
	}

	storeOp := wgpu.StoreOpStore
	if msaaEnabled {
		storeOp = wgpu.StoreOpDiscard
	}
	b.renderPassDescriptor = &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       b.msaaTextureView, // nil when MSAA is off; set in BeginFrame
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    storeOp,
				ClearValue: b.clearColor,
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depthTextureView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	}
}

func (b *wgpuRendererBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch mode {
	case PresentModeVSync:
		b.presentMode = wgpu.PresentModeFifo
	case PresentModeUncapped:
		fallthrough
	default:
		b.presentMode = wgpu.PresentModeImmediate
	}
}

func (b *wgpuRendererBackendImpl) SetClearColor(color [4]float64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.clearColor = wgpu.Color{R: color[0], G: color[1], B: color[2], A: color[3]}
	if b.renderPassDescriptor != nil {
		b.renderPassDescriptor.ColorAttachments[0].ClearValue = b.clearColor
	}
}

func (b *wgpuRendererBackendImpl) RegisterPointPipeline(source string, blend BlendMode) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.surfaceFormat == nil {
		return errors.New("surface must be configured before registering the point pipeline")
	}

	module, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: "Points",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: source,
		},
	})
	if err != nil {
		return fmt.Errorf("point shader: %w", err)
	}

	layout, err := b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Point Uniforms",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type: wgpu.BufferBindingTypeUniform,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create bind group layout: %w", err)
	}

	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Points",
		BindGroupLayouts: []*wgpu.BindGroupLayout{layout},
	})
	if err != nil {
		return err
	}

	created, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "Points Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: 12,
					StepMode:    wgpu.VertexStepModeInstance,
					Attributes: []wgpu.VertexAttribute{
						{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
					},
				},
				{
					ArrayStride: 4,
					StepMode:    wgpu.VertexStepModeInstance,
					Attributes: []wgpu.VertexAttribute{
						{Format: wgpu.VertexFormatFloat32, Offset: 0, ShaderLocation: 1},
					},
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    *b.surfaceFormat,
					WriteMask: wgpu.ColorWriteMaskAll,
					Blend:     blendState(blend),
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: uint32(b.sampleCount),
			Mask:  0xFFFFFFFF,
		},
		// Points are translucent: test against depth but never write it.
		DepthStencil: &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormatDepth24Plus,
			DepthWriteEnabled: false,
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
	})
	if err != nil {
		return err
	}

	var uniforms GPUPointUniforms
	uniformBuffer, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Point Uniforms",
		Size:  uint64(uniforms.Size()),
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return err
	}

	bindGroup, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Point Uniforms Bind Group",
		Layout: layout,
		Entries: []wgpu.BindGroupEntry{
			{
				Binding: 0,
				Buffer:  uniformBuffer,
				Offset:  0,
				Size:    wgpu.WholeSize,
			},
		},
	})
	if err != nil {
		uniformBuffer.Release()
		return err
	}

	b.pointPipeline = created
	b.uniformBuffer = uniformBuffer
	b.bindGroup = bindGroup
	return nil
}

func (b *wgpuRendererBackendImpl) WritePoints(positions, sizes []float32) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	n, err := pointCount(positions, sizes)
	if err != nil {
		return err
	}
	if capacity := growCapacity(b.pointCapacity, n); capacity != b.pointCapacity {
		if err := b.allocatePointBuffers(capacity); err != nil {
			return err
		}
	}
	if n > 0 {
		b.queue.WriteBuffer(b.positionBuffer, 0, common.SliceToBytes(positions))
		b.queue.WriteBuffer(b.sizeBuffer, 0, common.SliceToBytes(sizes))
	}
	b.pointCount = n
	return nil
}

func (b *wgpuRendererBackendImpl) allocatePointBuffers(capacity int) error {
	positionBuffer, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Point Positions",
		Size:  uint64(capacity) * 12,
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return err
	}
	sizeBuffer, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Point Sizes",
		Size:  uint64(capacity) * 4,
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		positionBuffer.Release()
		return err
	}

	if b.positionBuffer != nil {
		b.positionBuffer.Release()
	}
	if b.sizeBuffer != nil {
		b.sizeBuffer.Release()
	}
	b.positionBuffer = positionBuffer
	b.sizeBuffer = sizeBuffer
	b.pointCapacity = capacity
	return nil
}

func (b *wgpuRendererBackendImpl) WriteUniforms(uniforms *GPUPointUniforms) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.uniformBuffer == nil {
		return
	}
	b.queue.WriteBuffer(b.uniformBuffer, 0, uniforms.Marshal())
}

func (b *wgpuRendererBackendImpl) BeginFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	// A still-held surface texture means the previous frame was never presented.
	if b.frameSurface != nil {
		return fmt.Errorf("previous frame surface not yet presented")
	}
	if b.renderPassDescriptor == nil {
		return fmt.Errorf("surface not configured")
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return err
	}

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return err
	}

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return err
	}

	if b.sampleCount > 1 {
		b.renderPassDescriptor.ColorAttachments[0].ResolveTarget = view
	} else {
		b.renderPassDescriptor.ColorAttachments[0].View = view
	}
	pass := encoder.BeginRenderPass(b.renderPassDescriptor)

	b.frameEncoder = encoder
	b.framePass = pass
	b.frameSurface = surfaceTexture
	b.frameView = view

	return nil
}

func (b *wgpuRendererBackendImpl) DrawPoints() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.pointPipeline == nil {
		return errNoPipeline
	}
	if b.framePass == nil || b.pointCount == 0 {
		return nil
	}

	b.framePass.SetPipeline(b.pointPipeline)
	b.framePass.SetBindGroup(0, b.bindGroup, nil)
	b.framePass.SetVertexBuffer(0, b.positionBuffer, 0, wgpu.WholeSize)
	b.framePass.SetVertexBuffer(1, b.sizeBuffer, 0, wgpu.WholeSize)
	b.framePass.Draw(pointVerticesPerInstance, uint32(b.pointCount), 0, 0)
	return nil
}

func (b *wgpuRendererBackendImpl) EndFrame() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return
	}
	b.framePass.End()

	commandBuffer, err := b.frameEncoder.Finish(nil)
	if err != nil {
		b.frameEncoder.Release()
		b.frameView.Release()
		b.frameSurface.Release()
		b.frameEncoder = nil
		b.framePass = nil
		b.frameSurface = nil
		b.frameView = nil
		return
	}

	b.queue.Submit(commandBuffer)

	commandBuffer.Release()
	b.frameEncoder.Release()
	b.frameEncoder = nil
	b.framePass = nil
}

func (b *wgpuRendererBackendImpl) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSurface == nil {
		return
	}

	b.surface.Present()

	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	b.frameSurface.Release()
	b.frameSurface = nil
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, buf := range []*wgpu.Buffer{b.positionBuffer, b.sizeBuffer, b.uniformBuffer} {
		if buf != nil {
			buf.Release()
		}
	}
	b.positionBuffer, b.sizeBuffer, b.uniformBuffer = nil, nil, nil
	if b.bindGroup != nil {
		b.bindGroup.Release()
		b.bindGroup = nil
	}
	if b.pointPipeline != nil {
		b.pointPipeline.Release()
		b.pointPipeline = nil
	}
	if b.msaaTextureView != nil {
		b.msaaTextureView.Release()
		b.msaaTextureView = nil
	}
	if b.depthTextureView != nil {
		b.depthTextureView.Release()
		b.depthTextureView = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}

// blendState maps a BlendMode to the colour target blend.
// The fragment shader writes premultiplied colour, so both modes take the source as-is.
func blendState(mode BlendMode) *wgpu.BlendState {
	dst := wgpu.BlendFactorOne
	if mode == BlendAlpha {
		dst = wgpu.BlendFactorOneMinusSrcAlpha
	}
	return &wgpu.BlendState{
		Color: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorOne,
			DstFactor: dst,
			Operation: wgpu.BlendOperationAdd,
		},
		Alpha: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorOne,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			Operation: wgpu.BlendOperationAdd,
		},
	}
}
