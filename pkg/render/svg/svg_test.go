package svg

import (
	"strings"
	"testing"

	"github.com/lanewise/snapgraph/pkg/layout"
	"github.com/lanewise/snapgraph/pkg/render/styles"
	"github.com/lanewise/snapgraph/pkg/snapshot"
)

func buildResult(t *testing.T, in layout.Input) *layout.Result {
	t.Helper()
	res, err := layout.Build(in)
	if err != nil {
		t.Fatalf("layout.Build() error: %v", err)
	}
	return res
}

func linearInput() layout.Input {
	return layout.Input{
		Nodes: []snapshot.Node{
			{ID: "c2", Message: "second", Timestamp: 2000, TimelineID: "main", ParentIDs: []string{"c1"}, LaneHint: "lane-main", IsCurrent: true, IsTip: true},
			{ID: "c1", Message: "first", Timestamp: 1000, TimelineID: "main", LaneHint: "lane-main"},
		},
	}
}

func TestRender(t *testing.T) {
	res := buildResult(t, linearInput())
	out := string(Render(res))

	expected := []string{
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 32.0 88.0" width="32" height="88">`,
		`<circle class="dot" id="dot-c2" cx="16.0" cy="22.0" r="5.0" fill="#4c8df5"/>`,
		`<circle class="dot" id="dot-c1" cx="16.0" cy="66.0" r="5.0" fill="#4c8df5"/>`,
		`<path d="M 16.0 27.0 L 16.0 61.0" fill="none" stroke="#4c8df5" stroke-width="1.5"/>`,
		`</svg>`,
	}
	for _, want := range expected {
		if !strings.Contains(out, want) {
			t.Errorf("Render() output missing %q\nGot: %s", want, out)
		}
	}

	// Current snapshot gets a ring around its dot.
	if !strings.Contains(out, `r="8.0" fill="none" stroke="#4c8df5"`) {
		t.Errorf("Render() output missing current ring\nGot: %s", out)
	}

	// Labels are off by default.
	if strings.Contains(out, ">second</text>") {
		t.Error("Render() should not draw labels unless enabled")
	}
}

func TestRenderWithLabels(t *testing.T) {
	res := buildResult(t, linearInput())
	out := string(Render(res, WithLabels()))

	if !strings.Contains(out, `viewBox="0 0 252.0 88.0"`) {
		t.Errorf("Render() frame should widen for the label column\nGot: %s", out)
	}
	if !strings.Contains(out, `x="32.0" y="26.0" font-family="sans-serif" font-size="12" fill="#1a1a2e">second</text>`) {
		t.Errorf("Render() output missing label for c2\nGot: %s", out)
	}
	if !strings.Contains(out, ">first</text>") {
		t.Errorf("Render() output missing label for c1\nGot: %s", out)
	}
}

func TestRenderWithBackground(t *testing.T) {
	res := buildResult(t, linearInput())

	out := string(Render(res))
	if strings.Contains(out, "<rect") {
		t.Error("Render() should be transparent unless a background is requested")
	}

	out = string(Render(res, WithBackground()))
	if !strings.Contains(out, `<rect width="100%" height="100%" fill="#ffffff"/>`) {
		t.Errorf("Render() output missing background rect\nGot: %s", out)
	}
}

func TestRenderUncommittedIndicator(t *testing.T) {
	in := linearInput()
	in.Dirty = true
	res := buildResult(t, in)
	out := string(Render(res))

	if !strings.Contains(out, `class="dot dot-uncommitted"`) {
		t.Errorf("Render() output missing uncommitted dot\nGot: %s", out)
	}
	if !strings.Contains(out, `stroke-dasharray="4,3"`) {
		t.Errorf("Render() output missing dashed stroke\nGot: %s", out)
	}
}

func TestRenderGhostIndicator(t *testing.T) {
	in := linearInput()
	in.Dirty = true
	in.ViewingPast = true
	res := buildResult(t, in)
	out := string(Render(res))

	// The ghost sits on the next unused lane, widening the frame.
	if !strings.Contains(out, `class="dot dot-ghost" cx="38.0"`) {
		t.Errorf("Render() output missing ghost dot on its own lane\nGot: %s", out)
	}
	if !strings.Contains(out, `viewBox="0 0 54.0`) {
		t.Errorf("Render() frame should cover the ghost lane\nGot: %s", out)
	}
}

func TestRenderAliasNote(t *testing.T) {
	res := buildResult(t, layout.Input{
		Nodes: []snapshot.Node{
			{ID: "a1", Message: "shared", Timestamp: 1000, TimelineID: "main", LaneHint: "lane-main", IsCurrent: true, IsTip: true},
			{ID: "a1", Timestamp: 1000, TimelineID: "mirror", LaneHint: "lane-mirror"},
		},
		Timelines: map[string]snapshot.Timeline{
			"mirror": {Label: "Mirror copy"},
		},
	})
	out := string(Render(res))

	if !strings.Contains(out, `<text class="alias-note" x="31.0" y="60.0"`) {
		t.Errorf("Render() output missing alias note placement\nGot: %s", out)
	}
	if !strings.Contains(out, ">Mirror copy</text>") {
		t.Errorf("Render() output missing alias note label\nGot: %s", out)
	}
}

func TestRenderEscapesXML(t *testing.T) {
	in := layout.Input{
		Nodes: []snapshot.Node{
			{ID: "x<1>", Message: "fix <p> & stuff", Timestamp: 1000, TimelineID: "main"},
		},
	}
	res := buildResult(t, in)
	out := string(Render(res, WithLabels()))

	if strings.Contains(out, "fix <p>") {
		t.Error("Render() should escape < in labels")
	}
	if !strings.Contains(out, "fix &lt;p&gt; &amp; stuff") {
		t.Errorf("Render() output missing escaped label\nGot: %s", out)
	}
	if !strings.Contains(out, `id="dot-x&lt;1&gt;"`) {
		t.Errorf("Render() should escape < in dot ids\nGot: %s", out)
	}
}

func TestRenderWithTheme(t *testing.T) {
	theme := styles.DefaultTheme()
	theme.Palette = []string{"#123456"}
	theme.DashPattern = "9,9"

	in := linearInput()
	in.Dirty = true
	res := buildResult(t, in)
	out := string(Render(res, WithTheme(theme)))

	if !strings.Contains(out, `fill="#123456"`) {
		t.Errorf("Render() should color dots from the theme palette\nGot: %s", out)
	}
	if !strings.Contains(out, `stroke-dasharray="9,9"`) {
		t.Errorf("Render() should take the dash pattern from the theme\nGot: %s", out)
	}
}

func TestRenderWithMetrics(t *testing.T) {
	m := layout.DefaultMetrics()
	m.DotRadius = 7

	res := buildResult(t, linearInput())
	out := string(Render(res, WithMetrics(m)))

	if !strings.Contains(out, `r="7.0"`) {
		t.Errorf("Render() should size dots from the metrics\nGot: %s", out)
	}
}

func TestRenderEmptyLayout(t *testing.T) {
	res := buildResult(t, layout.Input{})
	out := string(Render(res))

	if !strings.Contains(out, "<svg") || !strings.Contains(out, "</svg>") {
		t.Errorf("Render() should produce a well-formed document for an empty layout\nGot: %s", out)
	}
	if strings.Contains(out, "<circle") {
		t.Error("Render() should draw nothing for an empty layout")
	}
}
