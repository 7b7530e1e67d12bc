package console

import (
	"context"
	"sync"

	"riskconsole/internal/risk"
	"riskconsole/pkg/models"
)

// RiskSource fetches the risk payload for one incident.
type RiskSource interface {
	Payload(ctx context.Context, incidentID int) (models.RiskScorePayload, error)
}

// RiskPanel shows the risk view of the selected incident. Only the result of
// the latest selection is ever applied.
type RiskPanel struct {
	mu       sync.Mutex
	source   RiskSource
	gen      uint64
	selected int
	loading  bool
	view     risk.View
	banner   string
	closed   bool
}

// NewRiskPanel creates a panel with nothing selected.
func NewRiskPanel(source RiskSource) *RiskPanel {
	return &RiskPanel{source: source, view: placeholder()}
}

// Select loads the risk view for an incident. The previous view is cleared
// immediately so it is never shown against the new selection. ErrStale is
// returned if another selection or Close happened while fetching.
func (p *RiskPanel) Select(ctx context.Context, incidentID int) (risk.View, error) {
	p.mu.Lock()
	p.gen++
	gen := p.gen
	p.selected = incidentID
	p.loading = true
	p.view = placeholder()
	p.banner = ""
	p.mu.Unlock()

	payload, err := p.source.Payload(ctx, incidentID)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || gen != p.gen || ctx.Err() != nil {
		return risk.View{}, ErrStale
	}
	p.loading = false
	if err != nil {
		p.banner = bannerFor(err)
		return p.view, err
	}
	p.view = risk.Render(payload)
	return p.view, nil
}

// View returns the current view and the selected incident id.
func (p *RiskPanel) View() (risk.View, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.view, p.selected
}

// Loading reports whether a fetch for the current selection is outstanding.
func (p *RiskPanel) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

// Banner returns the transport error banner for the current selection.
func (p *RiskPanel) Banner() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.banner
}

// Close tears the panel down; outstanding fetches are discarded.
func (p *RiskPanel) Close() {
	p.mu.Lock()
	p.closed = true
	p.gen++
	p.loading = false
	p.mu.Unlock()
}

func placeholder() risk.View {
	return risk.View{Placeholder: risk.Unavailable}
}
