package components

import "github.com/artpar/favtag/internal/core"

// SelectResultMsg is sent when a result is opened.
type SelectResultMsg struct {
	Result core.Result
}

// CopyMsg requests copying content to the clipboard.
type CopyMsg struct {
	Content string
}
