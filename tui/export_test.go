package tui

// RenderMarkdown exposes the markdown renderer for tests.
var RenderMarkdown = renderMarkdown
