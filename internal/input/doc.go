// Package input turns individual key presses into command invocations.
//
// A Handler sits between a host's event loop and a machine.Machine. Each
// stroke extends the machine's mode (the partial sequence typed so far) and
// the Handler compares the completions available before and after the
// stroke:
//
//   - If the extended mode still has completions, the press is Awaiting and
//     the mode keeps growing. NextStrokes enumerates what may follow, which
//     is what a status line shows.
//   - Otherwise the extended sequence is looked up among the completions
//     captured before the stroke. A bound and enabled command is Invoked;
//     anything else is Unrecognized. The mode is reset either way.
//
// Because the machine exposes a binding only when nothing longer shares its
// prefix, binding "Ctrl+5 Ctrl+5" makes a lone "Ctrl+5" await the second
// stroke instead of invoking whatever "Ctrl+5" was bound to.
//
// # Usage
//
//	m := machine.New()
//	m.SetBindings(bindings)
//	h := input.NewHandler(m, input.DefaultConfig())
//	defer h.Close()
//
//	switch res := h.Press(stroke); res.Outcome {
//	case input.OutcomeInvoke:
//		run(res.CommandID)
//	case input.OutcomeAwaiting:
//		status.Show(res.Sequence, h.NextStrokes())
//	}
//
// Hooks observe or intercept presses, and Metrics records per-outcome
// counters and press latency.
package input
