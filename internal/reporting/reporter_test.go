package reporting

import (
	"testing"
	"time"

	"github.com/spboyer/ipsbench/internal/models"
	"go.uber.org/mock/gomock"
)

func TestMulti_FansOutInOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	first := NewMockReporter(ctrl)
	second := NewMockReporter(ctrl)

	entry := models.ReportEntry{Label: "a"}
	for _, r := range []*MockReporter{first, second} {
		gomock.InOrder(
			r.EXPECT().StartWarming(),
			r.EXPECT().Warming("a", 2*time.Second),
			r.EXPECT().WarmupStats(1000.0, 7),
			r.EXPECT().StartRunning(),
			r.EXPECT().Running("a", 5*time.Second),
			r.EXPECT().AddReport(entry),
			r.EXPECT().Footer(),
		)
	}

	m := Multi{first, second}
	m.StartWarming()
	m.Warming("a", 2*time.Second)
	m.WarmupStats(1000, 7)
	m.StartRunning()
	m.Running("a", 5*time.Second)
	m.AddReport(entry)
	m.Footer()
}

func TestMulti_Empty(t *testing.T) {
	var m Multi
	m.StartWarming()
	m.Footer()
}

func TestDiscard_SatisfiesReporter(t *testing.T) {
	var r Reporter = Discard{}
	r.StartWarming()
	r.AddReport(models.ReportEntry{})
	r.Footer()
}
