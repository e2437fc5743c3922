package stream

import "github.com/charmbracelet/log"

// Observer receives splitter telemetry. A nil *Observer is silent, so hot
// paths call its methods unconditionally; the splitter never consults
// process-wide state for debugging.
type Observer struct {
	Logger *log.Logger
}

func (o *Observer) enabled() bool { return o != nil && o.Logger != nil }

func (o *Observer) blockFinalized(b *StableBlock) {
	if !o.enabled() {
		return
	}
	o.Logger.Debug("block finalized",
		"block_id", b.ID,
		"block_type", string(b.Type),
		"start", b.StartPos,
		"end", b.EndPos,
	)
}

func (o *Observer) parseDegraded(id string, err error) {
	if !o.enabled() {
		return
	}
	o.Logger.Warn("block parse failed", "block_id", id, "error", err)
}

func (o *Observer) urlRejected(id, raw string) {
	if !o.enabled() {
		return
	}
	o.Logger.Debug("component url rejected", "block_id", id, "url", raw)
}
