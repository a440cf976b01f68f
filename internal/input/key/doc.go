// Package key provides the stroke and sequence vocabulary of the binding engine.
//
// This package defines the fundamental types for representing keyboard input:
//
//   - Key: Identifies a special keyboard key (Enter, F5, arrows, ...)
//   - Modifier: Represents modifier keys (Ctrl, Alt, Shift, Meta)
//   - Stroke: A single key press packed into an integer (modifiers + key code)
//   - Sequence: An immutable, ordered list of strokes forming a trigger
//
// # Key Specifications
//
// Stroke specifications can be written in multiple formats:
//
//   - Simple keys: "a", "A", "1", "Enter", "Escape"
//   - With modifiers: "Ctrl+S", "Alt+F4", "Ctrl+Shift+P"
//   - Vim-style: "<C-s>", "<A-f>", "<C-S-p>", "<CR>", "<Esc>"
//
// # Sequences
//
// Multi-stroke sequences like "Ctrl+K Ctrl+C" are represented as Sequence
// values. Sequences are comparable, so they can be used directly as map
// keys, and they order lexicographically by stroke value.
package key
