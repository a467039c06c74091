// Package pipeline implements the Markdown-to-fragment stages.
//
// Stages run in this order, each one owned by a small type:
//   - Protect / Vault.Restore: lift code spans and fences out of the text
//   - FormulaRewriter: $$...$$ and $...$ to formula image markup
//   - GoldmarkConverter: Markdown to HTML, class-tagged highlighting
//   - DiagramRenderer: mermaid fences to embedded PNG images
//   - Styler: theme, palette and typography as inline style attributes
//   - Assembler: one <section> wrapper, rendered to a string
//
// Between parsing and assembly the document is a goquery.Document over
// golang.org/x/net/html nodes, mutated in place.
//
// The browser-backed diagram engine lives in the root wemark package; this
// package only depends on the DiagramEngine and Rasterizer interfaces.
package pipeline
