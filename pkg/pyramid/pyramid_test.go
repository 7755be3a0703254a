package pyramid

import (
	"testing"

	"github.com/matzehuels/mosaic/pkg/errors"
)

// stubSurface hands out sequential handles and records calls.
type stubSurface struct {
	next     Handle
	nodes    map[Handle]Block
	removed  []Handle
	children int
	cleared  int
	// dropChildren makes RenderChildren return no handles.
	dropChildren bool
	// hide makes FindVisualNodeFor miss.
	hide bool
}

func newStub() *stubSurface {
	return &stubSurface{nodes: make(map[Handle]Block)}
}

func (s *stubSurface) add(b Block) Handle {
	s.next++
	s.nodes[s.next] = b
	return s.next
}

func (s *stubSurface) RenderInitialLayer(blocks []Block) ([]Handle, error) {
	hs := make([]Handle, len(blocks))
	for i, b := range blocks {
		hs[i] = s.add(b)
	}
	return hs, nil
}

func (s *stubSurface) RenderChildren(parent Block, children []Block) ([]Handle, error) {
	s.children += len(children)
	hs := make([]Handle, len(children))
	for i, b := range children {
		hs[i] = s.add(b)
	}
	if s.dropChildren {
		return nil, nil
	}
	return hs, nil
}

func (s *stubSurface) RemoveBlock(b Block, h Handle) error {
	delete(s.nodes, h)
	s.removed = append(s.removed, h)
	return nil
}

func (s *stubSurface) RemoveAllBlocks() error {
	s.cleared++
	s.nodes = make(map[Handle]Block)
	return nil
}

func (s *stubSurface) FindVisualNodeFor(x, y, size int) (Handle, bool) {
	if s.hide {
		return NoHandle, false
	}
	for h, b := range s.nodes {
		if b.X == x && b.Y == y && b.Size == size {
			return h, true
		}
	}
	return NoHandle, false
}

func uniform(dim int, r, g, b byte) []byte {
	buf := make([]byte, dim*dim*ChannelsPerSample)
	for i := 0; i < len(buf); i += ChannelsPerSample {
		buf[i], buf[i+1], buf[i+2], buf[i+3] = r, g, b, 255
	}
	return buf
}

// gradient fills each sample with channel values derived from its position.
func gradient(dim int) []byte {
	buf := make([]byte, dim*dim*ChannelsPerSample)
	for y := 0; y < dim; y++ {
		for x := 0; x < dim; x++ {
			t := (y*dim + x) * ChannelsPerSample
			buf[t] = byte(x * 7)
			buf[t+1] = byte(y * 13)
			buf[t+2] = byte((x + y) * 3)
			buf[t+3] = 255
		}
	}
	return buf
}

func TestBuildUniformScenario(t *testing.T) {
	p, err := Build(uniform(2, 10, 20, 30), 32, 16)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if p.Layers() != 2 {
		t.Fatalf("Layers() = %d, want 2", p.Layers())
	}
	top := p.Layer(p.Coarsest())
	if len(top) != 1 {
		t.Fatalf("coarsest layer has %d blocks, want 1", len(top))
	}
	want := Color{R: 10, G: 20, B: 30}
	if top[0].Color != want {
		t.Errorf("coarsest color = %+v, want %+v", top[0].Color, want)
	}
	if top[0].Size != 32 {
		t.Errorf("coarsest size = %d, want 32", top[0].Size)
	}
}

func TestBuildColorIsMeanOfChildren(t *testing.T) {
	p, err := Build(gradient(16), 64, 4)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for k := 1; k < p.Layers(); k++ {
		for _, b := range p.Layer(k) {
			var sum Color
			for _, cid := range b.Children {
				c := p.Block(cid).Color
				sum.R += c.R
				sum.G += c.G
				sum.B += c.B
			}
			want := Color{R: sum.R / 4, G: sum.G / 4, B: sum.B / 4}
			if b.Color != want {
				t.Fatalf("%s color = %+v, want mean %+v", b.ID, b.Color, want)
			}
		}
	}
}

func TestBuildGeometry(t *testing.T) {
	p, err := Build(gradient(16), 64, 4)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if p.Layers() != 5 {
		t.Fatalf("Layers() = %d, want 5 (4,8,16,32,64)", p.Layers())
	}

	finest := p.Layer(0)
	if area := len(finest) * finest[0].Size * finest[0].Size; area != 64*64 {
		t.Errorf("finest layer area = %d, want %d", area, 64*64)
	}

	for k := 1; k < p.Layers(); k++ {
		for _, b := range p.Layer(k) {
			covered := 0
			for q, cid := range b.Children {
				c := p.Block(cid)
				if c.Size*2 != b.Size {
					t.Fatalf("%s size %d is not double child %s size %d", b.ID, b.Size, c.ID, c.Size)
				}
				if c.Parent != b.ID {
					t.Fatalf("child %s parent = %s, want %s", c.ID, c.Parent, b.ID)
				}
				wantX := b.X + quadrants[q][0]*c.Size
				wantY := b.Y + quadrants[q][1]*c.Size
				if c.X != wantX || c.Y != wantY {
					t.Fatalf("child %d of %s at (%d,%d), want (%d,%d)", q, b.ID, c.X, c.Y, wantX, wantY)
				}
				covered += c.Size * c.Size
			}
			if covered != b.Size*b.Size {
				t.Fatalf("children of %s cover %d, want %d", b.ID, covered, b.Size*b.Size)
			}
		}
	}

	for _, b := range p.Layer(p.Coarsest()) {
		if b.Parent.Valid() {
			t.Errorf("coarsest block %s has parent %s", b.ID, b.Parent)
		}
	}
	for _, b := range finest {
		if b.HasChildren() {
			t.Errorf("finest block %s has children", b.ID)
		}
	}
}

func TestBuildStopsAtTopSize(t *testing.T) {
	p, err := Build(gradient(16), 64, 4, WithTopSize(16), WithRevealSize(8))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if p.Layers() != 3 {
		t.Errorf("Layers() = %d, want 3 (4,8,16)", p.Layers())
	}
	if got := len(p.Layer(p.Coarsest())); got != 16 {
		t.Errorf("coarsest layer has %d blocks, want 16", got)
	}
	if p.RevealLayer() != 1 {
		t.Errorf("RevealLayer() = %d, want 1", p.RevealLayer())
	}
	if p.Units() != 64 {
		t.Errorf("Units() = %d, want 64", p.Units())
	}
}

func TestBuildInvalidDimensions(t *testing.T) {
	tests := []struct {
		name    string
		buf     []byte
		max     int
		min     int
		opts    []Option
		wantErr bool
	}{
		{"valid", uniform(4, 0, 0, 0), 64, 16, nil, false},
		{"short buffer", make([]byte, 10), 64, 16, nil, true},
		{"rgb buffer", make([]byte, 4*4*3), 64, 16, nil, true},
		{"min does not divide max", uniform(4, 0, 0, 0), 60, 16, nil, true},
		{"zero min", nil, 64, 0, nil, true},
		{"unit min", uniform(8, 0, 0, 0), 8, 1, nil, true},
		{"odd min", uniform(3, 0, 0, 0), 9, 3, nil, true},
		{"smallest even min", uniform(4, 0, 0, 0), 8, 2, nil, false},
		{"negative max", nil, -64, 16, nil, true},
		{"reveal not power of two", uniform(16, 0, 0, 0), 64, 4, []Option{WithRevealSize(12)}, true},
		{"reveal below cell", uniform(16, 0, 0, 0), 64, 4, []Option{WithRevealSize(2)}, true},
		{"top below reveal", uniform(16, 0, 0, 0), 64, 4, []Option{WithRevealSize(16), WithTopSize(8)}, true},
		{"top does not divide max", uniform(24, 0, 0, 0), 96, 4, []Option{WithTopSize(64)}, true},
		{"max not power of two multiple", uniform(3, 0, 0, 0), 48, 16, nil, true},
		{"top divides non power max", uniform(3, 0, 0, 0), 48, 16, []Option{WithTopSize(16)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.buf, tt.max, tt.min, tt.opts...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Build() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidDimension) {
				t.Errorf("Build() code = %s, want %s", errors.GetCode(err), errors.ErrCodeInvalidDimension)
			}
		})
	}
}

func TestLocate(t *testing.T) {
	p, err := Build(gradient(4), 64, 16)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	tests := []struct {
		x, y   int
		want   BlockID
		wantOK bool
	}{
		{0, 0, BlockID{0, 0}, true},
		{15, 15, BlockID{0, 0}, true},
		{16, 0, BlockID{0, 1}, true},
		{63, 63, BlockID{0, 15}, true},
		{20, 40, BlockID{0, 9}, true},
		{64, 0, NoBlock, false},
		{-1, 5, NoBlock, false},
	}
	for _, tt := range tests {
		got, ok := p.Locate(tt.x, tt.y)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("Locate(%d,%d) = %s,%v want %s,%v", tt.x, tt.y, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestEligibility(t *testing.T) {
	p, err := Build(gradient(16), 64, 4, WithRevealSize(16), WithTopSize(32))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	top := BlockID{Layer: p.Coarsest(), Index: 0}
	if p.Eligible(top) {
		t.Error("block without a visual node should not be eligible")
	}

	s := newStub()
	if err := p.RenderInitial(s); err != nil {
		t.Fatalf("RenderInitial: %v", err)
	}
	if !p.Eligible(top) {
		t.Error("rendered coarsest block should be eligible")
	}
	if p.Eligible(BlockID{Layer: 0, Index: 0}) {
		t.Error("unrendered finest block should not be eligible")
	}
	if p.Eligible(NoBlock) {
		t.Error("NoBlock should never be eligible")
	}
}

func TestSubdivideSplitThenReveal(t *testing.T) {
	p, err := Build(gradient(4), 64, 16, WithTopSize(32))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	s := newStub()
	if err := p.RenderInitial(s); err != nil {
		t.Fatalf("RenderInitial: %v", err)
	}
	if len(s.nodes) != 4 {
		t.Fatalf("initial nodes = %d, want 4", len(s.nodes))
	}

	top := BlockID{Layer: 1, Index: 0}
	out, err := p.Subdivide(top, s)
	if err != nil {
		t.Fatalf("Subdivide: %v", err)
	}
	if out.Kind != OutcomeSplit || out.Units != 0 || out.Size != 32 {
		t.Errorf("outcome = %+v, want split of size 32 with 0 units", out)
	}
	if !p.Block(top).Revealed || p.Block(top).Handle != NoHandle {
		t.Error("split block should be revealed with no handle")
	}
	if s.children != 4 || len(s.nodes) != 7 {
		t.Errorf("after split: children rendered %d, nodes %d; want 4, 7", s.children, len(s.nodes))
	}

	child := p.Block(top).Children[3]
	if !p.Eligible(child) {
		t.Fatal("rendered reveal-size child should be eligible")
	}
	out, err = p.Subdivide(child, s)
	if err != nil {
		t.Fatalf("Subdivide child: %v", err)
	}
	if out.Kind != OutcomeReveal || out.Units != 1 {
		t.Errorf("outcome = %+v, want reveal with 1 unit", out)
	}
	if s.children != 4 {
		t.Errorf("revealing should not render children, got %d total", s.children)
	}
}

func TestSubdivideIdempotent(t *testing.T) {
	p, err := Build(gradient(2), 32, 16)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	s := newStub()
	if err := p.RenderInitial(s); err != nil {
		t.Fatalf("RenderInitial: %v", err)
	}

	top := BlockID{Layer: 1, Index: 0}
	first, _ := p.Subdivide(top, s)
	second, _ := p.Subdivide(top, s)
	if first.Kind != OutcomeSplit {
		t.Errorf("first call kind = %s, want split", first.Kind)
	}
	if second.Kind != OutcomeNone {
		t.Errorf("second call kind = %s, want none", second.Kind)
	}
	if len(s.removed) != 1 {
		t.Errorf("removed %d nodes, want 1", len(s.removed))
	}

	leaf := p.Block(top).Children[0]
	a, _ := p.Subdivide(leaf, s)
	b, _ := p.Subdivide(leaf, s)
	if a.Units+b.Units != 1 {
		t.Errorf("units across two calls = %d, want 1", a.Units+b.Units)
	}
}

func TestSubdivideFallsBackToLookup(t *testing.T) {
	p, err := Build(gradient(2), 32, 16)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	s := newStub()
	if err := p.RenderInitial(s); err != nil {
		t.Fatalf("RenderInitial: %v", err)
	}
	s.dropChildren = true

	top := BlockID{Layer: 1, Index: 0}
	if _, err := p.Subdivide(top, s); err != nil {
		t.Fatalf("Subdivide with lookup fallback: %v", err)
	}
	for _, cid := range p.Block(top).Children {
		if !p.Block(cid).Visible() {
			t.Errorf("child %s should have been attached through FindVisualNodeFor", cid)
		}
	}
}

func TestSubdivideMissingSurface(t *testing.T) {
	p, err := Build(gradient(2), 32, 16)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	s := newStub()
	if err := p.RenderInitial(s); err != nil {
		t.Fatalf("RenderInitial: %v", err)
	}
	s.dropChildren = true
	s.hide = true

	top := BlockID{Layer: 1, Index: 0}
	out, err := p.Subdivide(top, s)
	if !errors.Is(err, errors.ErrCodeMissingSurface) {
		t.Fatalf("Subdivide error = %v, want MISSING_SURFACE", err)
	}
	if out.Kind != OutcomeSplit {
		t.Errorf("outcome kind = %s, want split despite missing nodes", out.Kind)
	}
	for _, cid := range p.Block(top).Children {
		if p.Eligible(cid) {
			t.Errorf("child %s without a node should not be eligible", cid)
		}
	}
}

func TestRevealAll(t *testing.T) {
	p, err := Build(gradient(4), 64, 16, WithTopSize(32))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	s := newStub()
	if err := p.RenderInitial(s); err != nil {
		t.Fatalf("RenderInitial: %v", err)
	}
	if _, err := p.Subdivide(BlockID{Layer: 1, Index: 2}, s); err != nil {
		t.Fatalf("Subdivide: %v", err)
	}

	if got := p.RevealAll(); got != 7 {
		t.Errorf("RevealAll() = %d visible, want 7", got)
	}
	for _, st := range p.Stats() {
		if st.Visible != 0 || st.Revealed != st.Blocks {
			t.Errorf("layer %d stats after RevealAll = %+v", st.Layer, st)
		}
	}
}

func TestColorHex(t *testing.T) {
	tests := []struct {
		c    Color
		want string
	}{
		{Color{}, "#000000"},
		{Color{R: 255, G: 255, B: 255}, "#ffffff"},
		{Color{R: 10.4, G: 20.5, B: 300}, "#0a15ff"},
	}
	for _, tt := range tests {
		if got := tt.c.Hex(); got != tt.want {
			t.Errorf("%+v.Hex() = %s, want %s", tt.c, got, tt.want)
		}
	}
}

func TestMean(t *testing.T) {
	got := Mean(Color{R: 1}, Color{R: 2}, Color{R: 3}, Color{R: 4, B: 8})
	want := Color{R: 2.5, B: 2}
	if got != want {
		t.Errorf("Mean = %+v, want %+v", got, want)
	}
	if Mean() != (Color{}) {
		t.Error("Mean() should be black")
	}
}
