package systems

import (
	"image"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gonewx/particlefx/internal/particle"
	"github.com/gonewx/particlefx/pkg/particles"
)

// maxQuadsPerDraw keeps the vertex count of one DrawTriangles call within
// uint16 index range.
const maxQuadsPerDraw = 0xFFFF / 4

// additiveBlend 加法混合模式（用于发光效果，如爆炸、火焰）
var additiveBlend = ebiten.Blend{
	BlendFactorSourceRGB:        ebiten.BlendFactorOne,
	BlendFactorDestinationRGB:   ebiten.BlendFactorOne,
	BlendOperationRGB:           ebiten.BlendOperationAdd,
	BlendFactorSourceAlpha:      ebiten.BlendFactorOne,
	BlendFactorDestinationAlpha: ebiten.BlendFactorOne,
	BlendOperationAlpha:         ebiten.BlendOperationAdd,
}

// TextureSource resolves the texture keys carried by draw batches.
// game.ResourceManager implements it.
type TextureSource interface {
	Texture(key string) *ebiten.Image
}

// RenderSystem 把粒子系统输出的顶点批次绘制到 ebiten 图像上
//
// 职责范围：
//   - 实现 particles.Renderer，按批次调用 DrawTriangles
//   - BlendMode → ebiten.Blend 映射
//   - 用离屏遮罩图模拟模板缓冲（ModifyStencil 写遮罩，UseStencil 按遮罩裁剪）
//
// 使用方式：每帧先 Begin(screen, cameraX, cameraY)，再让效果调用 DrawParticles。
type RenderSystem struct {
	textures TextureSource

	target           *ebiten.Image
	cameraX, cameraY float64

	// 粒子顶点/索引数组（复用，避免每帧分配）
	vertices []ebiten.Vertex
	indices  []uint16

	// 模板模拟：mask 记录写入的区域，layer 是裁剪前的离屏图层
	mask      *ebiten.Image
	layer     *ebiten.Image
	maskDirty bool

	debugOnce bool
	missing   map[string]bool
}

// NewRenderSystem 创建一个新的粒子渲染系统
func NewRenderSystem(textures TextureSource) *RenderSystem {
	return &RenderSystem{
		textures:  textures,
		vertices:  make([]ebiten.Vertex, 0, 4000), // 预分配容量：支持 1000 个粒子（每粒子 4 顶点）
		indices:   make([]uint16, 0, 6000),        // 预分配容量：支持 1000 个粒子（每粒子 6 索引）
		debugOnce: true,
		missing:   make(map[string]bool),
	}
}

// Begin sets the draw target for the following batches and clears the stencil mask.
// The camera offset is subtracted from every vertex.
func (s *RenderSystem) Begin(target *ebiten.Image, cameraX, cameraY float64) {
	s.target = target
	s.cameraX = cameraX
	s.cameraY = cameraY

	if s.mask != nil && s.maskDirty {
		s.mask.Clear()
		s.maskDirty = false
	}

	if s.debugOnce {
		b := target.Bounds()
		log.Printf("[RenderSystem] Begin: target=%dx%d camera=(%.1f, %.1f)", b.Dx(), b.Dy(), cameraX, cameraY)
		s.debugOnce = false
	}
}

// DrawParticles implements particles.Renderer.
func (s *RenderSystem) DrawParticles(batch *particles.DrawBatch) {
	if s.target == nil || batch.VertexCount <= 0 {
		return
	}

	img := s.textures.Texture(batch.Texture)
	if img == nil {
		if !s.missing[batch.Texture] {
			log.Printf("[RenderSystem] 警告：找不到纹理 %q，跳过渲染", batch.Texture)
			s.missing[batch.Texture] = true
		}
		return
	}

	switch {
	case batch.Stencil.Use:
		s.drawMasked(batch, img)
	case batch.Stencil.Modify:
		s.drawToMask(batch, img)
	default:
		s.drawBatch(s.target, batch, img, blendFor(batch.Blend))
	}
}

// drawMasked draws into the offscreen layer, keeps only the pixels covered by
// the mask and composites the result onto the target.
func (s *RenderSystem) drawMasked(batch *particles.DrawBatch, img *ebiten.Image) {
	s.ensureOffscreen()
	if !s.maskDirty {
		// Nothing has written to the mask this frame, so nothing passes.
		return
	}

	s.layer.Clear()
	s.drawBatch(s.layer, batch, img, blendFor(batch.Blend))

	op := &ebiten.DrawImageOptions{}
	op.Blend = ebiten.BlendDestinationIn
	s.layer.DrawImage(s.mask, op)

	s.target.DrawImage(s.layer, nil)
}

// drawToMask applies the stencil op to the mask without touching the target.
func (s *RenderSystem) drawToMask(batch *particles.DrawBatch, img *ebiten.Image) {
	s.ensureOffscreen()

	blend := ebiten.BlendSourceOver
	switch batch.Stencil.Op {
	case particle.StencilOpZero, particle.StencilOpDecrease:
		blend = ebiten.BlendDestinationOut
	}
	s.drawBatch(s.mask, batch, img, blend)
	s.maskDirty = true
}

func (s *RenderSystem) ensureOffscreen() {
	b := s.target.Bounds()
	if s.mask != nil && s.mask.Bounds().Size() == b.Size() {
		return
	}
	if s.mask != nil {
		s.mask.Deallocate()
		s.layer.Deallocate()
	}
	s.mask = ebiten.NewImage(b.Dx(), b.Dy())
	s.layer = ebiten.NewImage(b.Dx(), b.Dy())
	s.maskDirty = false
}

// drawBatch 批量绘制（同一批次共享同一贴图），超过索引上限时分段提交
func (s *RenderSystem) drawBatch(dst *ebiten.Image, batch *particles.DrawBatch, img *ebiten.Image, blend ebiten.Blend) {
	op := &ebiten.DrawTrianglesOptions{}
	op.AntiAlias = true
	op.Blend = blend

	quads := batch.VertexCount / 4
	bounds := img.Bounds()
	for start := 0; start < quads; start += maxQuadsPerDraw {
		end := start + maxQuadsPerDraw
		if end > quads {
			end = quads
		}
		s.buildVertices(batch, start, end, bounds)
		dst.DrawTriangles(s.vertices, s.indices, img, op)
	}
}

// buildVertices converts quads [start, end) of batch into ebiten vertices.
// Normalized texture coordinates are mapped onto the texture bounds.
func (s *RenderSystem) buildVertices(batch *particles.DrawBatch, start, end int, tex image.Rectangle) {
	s.vertices = s.vertices[:0]
	s.indices = s.indices[:0]

	dx := batch.Translate.X() - float32(s.cameraX)
	dy := batch.Translate.Y() - float32(s.cameraY)
	texW := float32(tex.Dx())
	texH := float32(tex.Dy())
	texX := float32(tex.Min.X)
	texY := float32(tex.Min.Y)

	for q := start; q < end; q++ {
		base := uint16(len(s.vertices))
		for c := 0; c < 4; c++ {
			i := q*4 + c
			v := batch.Vertices[i]
			uv := batch.TexCoords[i]
			col := batch.Colors[i]
			s.vertices = append(s.vertices, ebiten.Vertex{
				DstX:   v.X() + dx,
				DstY:   v.Y() + dy,
				SrcX:   texX + uv.X()*texW,
				SrcY:   texY + uv.Y()*texH,
				ColorR: col.X(),
				ColorG: col.Y(),
				ColorB: col.Z(),
				ColorA: col.W(),
			})
		}
		// 两个三角形：0-1-2, 0-2-3
		s.indices = append(s.indices,
			base, base+1, base+2,
			base, base+2, base+3,
		)
	}
}

// blendFor maps a definition blend mode onto an ebiten blend.
func blendFor(mode particle.BlendMode) ebiten.Blend {
	switch mode {
	case particle.BlendNone:
		return ebiten.BlendCopy
	case particle.BlendAdditive:
		return additiveBlend
	default:
		return ebiten.BlendSourceOver
	}
}
