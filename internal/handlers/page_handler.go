package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/cold-mail-generator/internal/controller"
	"alfredoptarigan/cold-mail-generator/internal/ui/web"
)

// PageHandler serves the HTML job form. Each form post runs one controller
// submission against the dispatcher and renders the settled page.
type PageHandler struct {
	dispatcher controller.Dispatcher
	timeout    time.Duration
}

func NewPageHandler(dispatcher controller.Dispatcher, timeout time.Duration) *PageHandler {
	return &PageHandler{
		dispatcher: dispatcher,
		timeout:    timeout,
	}
}

// HandleIndex handles GET /
func (h *PageHandler) HandleIndex(c *fiber.Ctx) error {
	return h.render(c, web.NewPage(""))
}

// HandleSubmit handles POST /
func (h *PageHandler) HandleSubmit(c *fiber.Ctx) error {
	page := web.NewPage(c.FormValue("job_url"))

	var opts []controller.Option
	if h.timeout > 0 {
		opts = append(opts, controller.WithTimeout(h.timeout))
	}

	ctrl := controller.New(page.Elements(), h.dispatcher, opts...)
	<-ctrl.Submit(c.UserContext())

	return h.render(c, page)
}

func (h *PageHandler) render(c *fiber.Ctx, page *web.Page) error {
	c.Type("html", "utf-8")
	return page.Render(c)
}
