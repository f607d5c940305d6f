package notify_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/kindstrap/kindstrap/pkg/ui/notify"

	fcolor "github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	fcolor.NoColor = true

	m.Run()
}

type fixedTimer struct {
	total time.Duration
	stage time.Duration
}

func (t *fixedTimer) Start()    {}
func (t *fixedTimer) NewStage() {}

func (t *fixedTimer) GetTiming() (time.Duration, time.Duration) {
	return t.total, t.stage
}

func TestConvenienceHelpers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		write    func(out *bytes.Buffer)
		expected string
	}{
		{
			name:     "error",
			write:    func(out *bytes.Buffer) { notify.Errorf(out, "broke: %s", "badly") },
			expected: "✗ broke: badly\n",
		},
		{
			name:     "warning",
			write:    func(out *bytes.Buffer) { notify.Warningf(out, "careful") },
			expected: "⚠ careful\n",
		},
		{
			name:     "activity",
			write:    func(out *bytes.Buffer) { notify.Activityf(out, "working") },
			expected: "► working\n",
		},
		{
			name:     "success",
			write:    func(out *bytes.Buffer) { notify.Successf(out, "done") },
			expected: "✔ done\n",
		},
		{
			name:     "info",
			write:    func(out *bytes.Buffer) { notify.Infof(out, "note") },
			expected: "ℹ note\n",
		},
		{
			name:     "title",
			write:    func(out *bytes.Buffer) { notify.Titlef(out, "🚀", "Launch %d", 1) },
			expected: "🚀 Launch 1\n",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			var out bytes.Buffer

			testCase.write(&out)

			assert.Equal(t, testCase.expected, out.String())
		})
	}
}

func TestSuccessWithTimerPrintsTimingBlock(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	tmr := &fixedTimer{total: 5 * time.Second, stage: 2 * time.Second}

	notify.SuccessWithTimerf(&out, tmr, "cluster ready")

	assert.Contains(t, out.String(), "✔ cluster ready\n")
	assert.Contains(t, out.String(), "⏲ current: 2s\n")
	assert.Contains(t, out.String(), "total:  5s\n")
}

func TestTitleDefaultsEmoji(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	notify.WriteMessage(notify.Message{Type: notify.TitleType, Content: "Heading", Writer: &out})

	assert.Equal(t, "ℹ️ Heading\n", out.String())
}

func TestWriteMessageWithoutArgsKeepsContentVerbatim(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	notify.WriteMessage(notify.Message{
		Type:    notify.InfoType,
		Content: "100%% literal",
		Writer:  &out,
	})

	assert.Equal(t, "ℹ 100%% literal\n", out.String())
}
