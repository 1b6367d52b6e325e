package canvas

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"resume-editor/internal/model"

	"github.com/google/uuid"
)

func mounted(t *testing.T) *Canvas {
	t.Helper()
	c := New()
	if err := c.Mount(DefaultWidth, DefaultHeight); err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	return c
}

func sampleResult() *model.OCRResult {
	return &model.OCRResult{
		PageWidth:  1000,
		PageHeight: 1100,
		TextBlocks: []model.TextBlock{
			{Text: "JANE DOE", X: 400, Y: 30, Width: 200, Height: 40, FontSize: 28, FontWeight: model.FontWeightBold, TextAlign: model.AlignCenter},
			{Text: "EXPERIENCE", X: 60, Y: 200, Width: 150, Height: 20, FontSize: 16, FontWeight: model.FontWeightBold},
			{Text: "Built things", X: 60, Y: 230, Width: 300, Height: 14, FontSize: 11},
			{Text: "2021 - 2024", X: 850, Y: 230, Width: 100, Height: 14, FontSize: 8, TextAlign: model.AlignRight},
		},
	}
}

func TestMount_Guard(t *testing.T) {
	c := New()
	if c.Ready() {
		t.Fatal("Ready() = true before Mount")
	}
	if err := c.Mount(DefaultWidth, DefaultHeight); err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	if err := c.Mount(DefaultWidth, DefaultHeight); !errors.Is(err, ErrSurfaceMounted) {
		t.Errorf("second Mount() error = %v, want ErrSurfaceMounted", err)
	}
	c.Dispose()
	if c.Ready() {
		t.Error("Ready() = true after Dispose")
	}
	c.Dispose()
	if err := c.Mount(DefaultWidth, DefaultHeight); err != nil {
		t.Errorf("Mount() after Dispose error = %v", err)
	}
	if err := New().Mount(0, 10); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("Mount(0, 10) error = %v, want ErrInvalidSize", err)
	}
}

func TestDimensions(t *testing.T) {
	c := New()
	if got := c.Dimensions(); got != (Size{}) {
		t.Errorf("Dimensions() before Mount = %+v", got)
	}
	_ = c.Mount(640, 480)
	if got := c.Dimensions(); got != (Size{Width: 640, Height: 480}) {
		t.Errorf("Dimensions() = %+v, want 640x480", got)
	}
	c.Dispose()
	if got := c.Dimensions(); got != (Size{}) {
		t.Errorf("Dimensions() after Dispose = %+v", got)
	}
}

func TestLoad_BeforeMountIsNoop(t *testing.T) {
	c := New()
	if c.Load(sampleResult()) {
		t.Error("Load() = true before Mount")
	}
	if n := len(c.Objects()); n != 0 {
		t.Errorf("len(Objects()) = %d, want 0", n)
	}
}

func TestLoad_ScalesBlocks(t *testing.T) {
	tests := []struct {
		name          string
		width, height float64
	}{
		{"identity", 1000, 1100},
		{"half", 500, 550},
		{"wide", 2000, 1100},
		{"anisotropic", 800, 1650},
	}

	for _, tt := range tests {
		c := New()
		if err := c.Mount(tt.width, tt.height); err != nil {
			t.Fatalf("%s: Mount() error = %v", tt.name, err)
		}
		res := sampleResult()
		if !c.Load(res) {
			t.Fatalf("%s: Load() = false", tt.name)
		}

		sx, sy := tt.width/res.PageWidth, tt.height/res.PageHeight
		if got := c.Scale(); got.X != sx || got.Y != sy {
			t.Errorf("%s: Scale() = %+v, want {%v %v}", tt.name, got, sx, sy)
		}
		objs := c.Objects()
		if len(objs) != len(res.TextBlocks) {
			t.Fatalf("%s: len(Objects()) = %d, want %d", tt.name, len(objs), len(res.TextBlocks))
		}
		for i, b := range res.TextBlocks {
			o := objs[i]
			pos := o.Position()
			if math.Abs(pos.X-b.X*sx) > 1e-9 || math.Abs(pos.Y-b.Y*sy) > 1e-9 {
				t.Errorf("%s: block %d position = %+v, want (%v, %v)", tt.name, i, pos, b.X*sx, b.Y*sy)
			}
			wantSize := math.Max(MinFontSize, b.FontSize*math.Min(sx, sy))
			if got := o.Style().FontSize; math.Abs(got-wantSize) > 1e-9 {
				t.Errorf("%s: block %d font size = %v, want %v", tt.name, i, got, wantSize)
			}
			if got := o.(*TextObject).Text(); got != b.Text {
				t.Errorf("%s: block %d text = %q, want %q", tt.name, i, got, b.Text)
			}
		}
	}
}

func TestLoad_Styles(t *testing.T) {
	c := mounted(t)
	c.Load(sampleResult())
	objs := c.Objects()

	name := objs[0].Style()
	if name.FontWeight != model.FontWeightBold || name.TextAlign != model.AlignCenter {
		t.Errorf("name style = %+v, want bold/center", name)
	}
	body := objs[2].Style()
	if body.FontWeight != model.FontWeightNormal || body.TextAlign != model.AlignLeft {
		t.Errorf("body style = %+v, want normal/left", body)
	}
	if body.FontFamily != DefaultFontFamily || body.Fill != DefaultFill || body.FontStyle != FontStyleNormal {
		t.Errorf("body defaults = %+v", body)
	}
	if got := objs[3].Style().FontSize; got != MinFontSize {
		t.Errorf("small font = %v, want floor %v", got, MinFontSize)
	}
}

func TestLoad_ClampsFontSize(t *testing.T) {
	c := mounted(t)
	c.Load(&model.OCRResult{PageWidth: 1000, PageHeight: 1100, TextBlocks: []model.TextBlock{
		{Text: "Banner", X: 0, Y: 0, Width: 1000, Height: 200, FontSize: 5000},
	}})
	if got := c.Objects()[0].Style().FontSize; got != MaxFontSize {
		t.Errorf("FontSize = %v, want %v", got, MaxFontSize)
	}
}

func TestLoad_ReplacesScene(t *testing.T) {
	c := mounted(t)
	c.Load(sampleResult())
	if _, err := c.AddText("extra"); err != nil {
		t.Fatalf("AddText() error = %v", err)
	}
	c.Load(&model.OCRResult{PageWidth: 1000, PageHeight: 1100, TextBlocks: []model.TextBlock{}})
	if n := len(c.Objects()); n != 0 {
		t.Errorf("len(Objects()) = %d after empty Load, want 0", n)
	}
	if c.Selected() != nil {
		t.Error("Selected() != nil after Load")
	}
}

func TestAddThenDeleteRestoresCount(t *testing.T) {
	c := mounted(t)
	c.Load(sampleResult())
	before := len(c.Objects())

	obj, err := c.AddText("")
	if err != nil {
		t.Fatalf("AddText() error = %v", err)
	}
	if obj.Text() != DefaultText {
		t.Errorf("Text() = %q, want %q", obj.Text(), DefaultText)
	}
	if obj.Position() != DefaultPosition {
		t.Errorf("Position() = %+v, want %+v", obj.Position(), DefaultPosition)
	}
	if st := obj.Style(); st.FontSize != DefaultFontSize || st.Fill != DefaultFill || st.FontFamily != DefaultFontFamily {
		t.Errorf("Style() = %+v, want defaults", st)
	}
	if c.Selected() != Object(obj) {
		t.Error("new object is not selected")
	}
	if len(c.Objects()) != before+1 {
		t.Errorf("len(Objects()) = %d, want %d", len(c.Objects()), before+1)
	}

	c.DeleteSelected()
	if len(c.Objects()) != before {
		t.Errorf("len(Objects()) = %d after delete, want %d", len(c.Objects()), before)
	}
	if c.Selected() != nil {
		t.Error("Selected() != nil after DeleteSelected")
	}
}

func TestAddText_NotReady(t *testing.T) {
	if _, err := New().AddText("x"); !errors.Is(err, ErrSurfaceNotReady) {
		t.Errorf("AddText() error = %v, want ErrSurfaceNotReady", err)
	}
}

func TestDeleteSelected_NoSelection(t *testing.T) {
	c := mounted(t)
	c.Load(sampleResult())
	c.DeleteSelected()
	if n := len(c.Objects()); n != 4 {
		t.Errorf("len(Objects()) = %d, want 4", n)
	}
}

func TestUpdateStyle_NoSelectionIsNoop(t *testing.T) {
	c := mounted(t)
	c.Load(sampleResult())
	before := c.Snapshot()

	if err := c.UpdateStyle(SetFill("#ff0000")); err != nil {
		t.Fatalf("UpdateStyle() error = %v", err)
	}
	after := c.Snapshot()
	for i := range before.Items {
		if before.Items[i] != after.Items[i] {
			t.Errorf("item %d changed: %+v -> %+v", i, before.Items[i], after.Items[i])
		}
	}
}

func TestUpdateStyle_SelectedOnly(t *testing.T) {
	c := mounted(t)
	c.Load(sampleResult())
	objs := c.Objects()
	if err := c.Select(objs[1].ID()); err != nil {
		t.Fatalf("Select() error = %v", err)
	}

	ops := []StyleOp{
		SetFontFamily("Georgia"),
		SetFontSize(20),
		SetFontWeight(model.FontWeightNormal),
		SetFontStyle(FontStyleItalic),
		SetFill("#FF0000"),
		SetTextAlign(model.AlignRight),
	}
	for _, op := range ops {
		if err := c.UpdateStyle(op); err != nil {
			t.Fatalf("UpdateStyle(%s) error = %v", op.Property(), err)
		}
	}

	got := objs[1].Style()
	want := Style{
		FontFamily: "Georgia",
		FontSize:   20,
		FontWeight: model.FontWeightNormal,
		FontStyle:  FontStyleItalic,
		Fill:       "#ff0000",
		TextAlign:  model.AlignRight,
	}
	if got != want {
		t.Errorf("Style() = %+v, want %+v", got, want)
	}
	if other := objs[2].Style(); other.FontFamily != DefaultFontFamily || other.Fill != DefaultFill {
		t.Errorf("unselected object changed: %+v", other)
	}
}

func TestUpdateStyle_InvalidValues(t *testing.T) {
	c := mounted(t)
	obj, _ := c.AddText("x")
	before := obj.Style()

	ops := []StyleOp{
		SetFontFamily("  "),
		SetFontSize(0),
		SetFontSize(-4),
		SetFontSize(math.NaN()),
		SetFontSize(math.Inf(1)),
		SetFontSize(MaxFontSize + 1),
		SetFontSize(1e5),
		SetFontWeight("heavy"),
		SetFontStyle("oblique"),
		SetFill("red-ish"),
		SetTextAlign("justify"),
	}
	for _, op := range ops {
		if err := c.UpdateStyle(op); !errors.Is(err, ErrInvalidStyle) {
			t.Errorf("UpdateStyle(%s=%v) error = %v, want ErrInvalidStyle", op.Property(), op, err)
		}
	}
	if obj.Style() != before {
		t.Errorf("Style() = %+v, want unchanged %+v", obj.Style(), before)
	}
}

func TestParseStyleOp(t *testing.T) {
	tests := []struct {
		property string
		value    string
		want     StyleOp
		wantErr  bool
	}{
		{"fontFamily", `"Verdana"`, SetFontFamily("Verdana"), false},
		{"fontSize", `18`, SetFontSize(18), false},
		{"fontWeight", `"bold"`, SetFontWeight("bold"), false},
		{"fontStyle", `"italic"`, SetFontStyle("italic"), false},
		{"fill", `"#123456"`, SetFill("#123456"), false},
		{"textAlign", `"center"`, SetTextAlign("center"), false},
		{"fontSize", `"18"`, nil, true},
		{"fill", `12`, nil, true},
		{"opacity", `0.5`, nil, true},
		{"", `"x"`, nil, true},
	}

	for _, tt := range tests {
		got, err := ParseStyleOp(tt.property, json.RawMessage(tt.value))
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidStyle) {
				t.Errorf("ParseStyleOp(%q, %s) error = %v, want ErrInvalidStyle", tt.property, tt.value, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseStyleOp(%q, %s) error = %v", tt.property, tt.value, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseStyleOp(%q, %s) = %#v, want %#v", tt.property, tt.value, got, tt.want)
		}
	}
}

func TestSelectionEvents(t *testing.T) {
	c := mounted(t)
	var events []SelectionEvent
	c.OnSelectionChanged(func(ev SelectionEvent) { events = append(events, ev) })

	c.Load(sampleResult())
	objs := c.Objects()

	_ = c.Select(objs[0].ID())
	_ = c.Select(objs[0].ID())
	_ = c.Select(objs[1].ID())
	c.ClearSelection()
	c.ClearSelection()
	_, _ = c.AddText("a")
	c.DeleteSelected()

	want := []SelectionEventKind{SelectionCreated, SelectionUpdated, SelectionCleared, SelectionCreated, SelectionCleared}
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d: %+v", len(events), len(want), events)
	}
	for i, k := range want {
		if events[i].Kind != k {
			t.Errorf("event %d kind = %s, want %s", i, events[i].Kind, k)
		}
		if events[i].HasSelection != (k != SelectionCleared) {
			t.Errorf("event %d HasSelection = %v", i, events[i].HasSelection)
		}
		if (events[i].Selected == nil) == events[i].HasSelection {
			t.Errorf("event %d Selected = %v, HasSelection = %v", i, events[i].Selected, events[i].HasSelection)
		}
	}
	if events[1].Selected.ID() != objs[1].ID() {
		t.Error("updated event does not carry the new primary object")
	}
}

func TestSelect_Unknown(t *testing.T) {
	c := mounted(t)
	if err := c.Select(uuid.New()); !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("Select() error = %v, want ErrObjectNotFound", err)
	}
}

func TestTextEditing(t *testing.T) {
	c := mounted(t)
	c.Load(sampleResult())
	obj := c.Objects()[2].(*TextObject)

	if err := c.UpdateDraft("x"); !errors.Is(err, ErrNotEditing) {
		t.Errorf("UpdateDraft() before edit error = %v, want ErrNotEditing", err)
	}
	if err := c.BeginTextEdit(obj.ID()); err != nil {
		t.Fatalf("BeginTextEdit() error = %v", err)
	}
	if c.Editing() != obj || c.Selected() != Object(obj) {
		t.Fatal("edited object is not selected")
	}
	_ = c.UpdateDraft("Built distributed systems")
	if obj.Text() != "Built things" {
		t.Errorf("draft leaked before commit: %q", obj.Text())
	}
	if err := c.CommitTextEdit(); err != nil {
		t.Fatalf("CommitTextEdit() error = %v", err)
	}
	if obj.Text() != "Built distributed systems" {
		t.Errorf("Text() = %q after commit", obj.Text())
	}
	if c.Editing() != nil {
		t.Error("Editing() != nil after commit")
	}

	_ = c.BeginTextEdit(obj.ID())
	_ = c.UpdateDraft("   ")
	_ = c.CommitTextEdit()
	if obj.Text() != "Built distributed systems" {
		t.Errorf("blank commit changed text to %q", obj.Text())
	}

	_ = c.BeginTextEdit(obj.ID())
	_ = c.UpdateDraft("discarded")
	c.CancelTextEdit()
	if obj.Text() != "Built distributed systems" {
		t.Errorf("cancel changed text to %q", obj.Text())
	}
}

func TestTextEditing_BlurCommits(t *testing.T) {
	c := mounted(t)
	c.Load(sampleResult())
	objs := c.Objects()
	obj := objs[1].(*TextObject)

	_ = c.BeginTextEdit(obj.ID())
	_ = c.UpdateDraft("WORK HISTORY")
	_ = c.Select(objs[0].ID())
	if obj.Text() != "WORK HISTORY" {
		t.Errorf("Text() = %q, want draft committed on blur", obj.Text())
	}
}

func TestMove(t *testing.T) {
	c := mounted(t)
	c.Load(sampleResult())
	obj := c.Objects()[1]
	start := obj.Position()

	if err := c.Move(obj.ID(), 15, -5); err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	if got := obj.Position(); got.X != start.X+15 || got.Y != start.Y-5 {
		t.Errorf("Position() = %+v, want %+v shifted by (15,-5)", got, start)
	}
	if c.Selected() != obj {
		t.Error("drag did not select object")
	}
}

func TestResize(t *testing.T) {
	c := mounted(t)
	obj, _ := c.AddText("Summary")
	size := obj.Size()

	if err := c.Resize(obj.ID(), size.Width*2, size.Height*3); err != nil {
		t.Fatalf("Resize() error = %v", err)
	}
	if got := obj.Style().FontSize; math.Abs(got-DefaultFontSize*2) > 1e-9 {
		t.Errorf("FontSize = %v, want %v", got, DefaultFontSize*2)
	}
	if got := obj.Size(); got.Width != size.Width*2 || got.Height != size.Height*3 {
		t.Errorf("Size() = %+v", got)
	}

	if err := c.Resize(obj.ID(), 1, 1); err != nil {
		t.Fatalf("Resize() error = %v", err)
	}
	if got := obj.Style().FontSize; got != MinFontSize {
		t.Errorf("FontSize = %v, want floor %v", got, MinFontSize)
	}

	if err := c.Resize(obj.ID(), size.Width*1e4, size.Height*1e4); err != nil {
		t.Fatalf("Resize() error = %v", err)
	}
	if got := obj.Style().FontSize; got != MaxFontSize {
		t.Errorf("FontSize = %v, want cap %v", got, MaxFontSize)
	}

	for _, dims := range [][2]float64{{0, 10}, {10, -1}, {math.NaN(), 10}, {math.Inf(1), 10}} {
		if err := c.Resize(obj.ID(), dims[0], dims[1]); !errors.Is(err, ErrInvalidSize) {
			t.Errorf("Resize(%v) error = %v, want ErrInvalidSize", dims, err)
		}
	}
}

func TestSnapshot(t *testing.T) {
	c := New()
	if s := c.Snapshot(); s.Width != 0 || len(s.Items) != 0 {
		t.Errorf("Snapshot() before Mount = %+v", s)
	}
	_ = c.Mount(DefaultWidth, DefaultHeight)
	c.Load(sampleResult())
	s := c.Snapshot()
	if s.Width != DefaultWidth || s.Height != DefaultHeight || s.Background != DefaultBackground {
		t.Errorf("Snapshot() surface = %vx%v %s", s.Width, s.Height, s.Background)
	}
	if len(s.Items) != 4 || s.Items[0].Text != "JANE DOE" {
		t.Errorf("Snapshot() items = %+v", s.Items)
	}
	if lines := (Item{Text: "a\nb"}).Lines(); len(lines) != 2 {
		t.Errorf("Lines() = %q", lines)
	}
}

func TestDispose_ClearsSelection(t *testing.T) {
	c := mounted(t)
	var last SelectionEvent
	c.OnSelectionChanged(func(ev SelectionEvent) { last = ev })
	_, _ = c.AddText("x")
	c.Dispose()
	if last.Kind != SelectionCleared {
		t.Errorf("last event = %s, want cleared", last.Kind)
	}
	if len(c.Objects()) != 0 {
		t.Error("objects survived Dispose")
	}
	if c.CanUndo() || c.CanRedo() {
		t.Error("history controls should be disabled")
	}
}
