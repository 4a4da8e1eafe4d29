package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"alfredoptarigan/cold-mail-generator/internal/controller"
)

var ErrGenerationFailed = errors.New("generation failed")

// printer is a write-once element set for one-shot submissions.
type printer struct {
	value   string
	alert   string
	content controller.Content
}

func (p *printer) Value() string                         { return p.value }
func (p *printer) SetVisible(bool)                       {}
func (p *printer) SetContent(content controller.Content) { p.content = content }
func (p *printer) Alert(message string)                  { p.alert = message }

// Submit runs one controller submission for jobURL and prints the outcome to
// w. It returns ErrGenerationFailed when the output shows an error.
func Submit(ctx context.Context, w io.Writer, dispatcher controller.Dispatcher, jobURL string, timeout time.Duration) error {
	p := &printer{value: jobURL}

	var opts []controller.Option
	if timeout > 0 {
		opts = append(opts, controller.WithTimeout(timeout))
	}

	ctrl := controller.New(controller.Elements{
		Input:    p,
		Loader:   p,
		Output:   p,
		Notifier: p,
	}, dispatcher, opts...)

	<-ctrl.Submit(ctx)

	if p.alert != "" {
		fmt.Fprintln(w, warningStyle.Render(p.alert))
		return ErrGenerationFailed
	}

	fmt.Fprintln(w, p.content.Text())
	if p.content.Kind == controller.ContentError {
		return ErrGenerationFailed
	}
	return nil
}
