// Storefront serves the Cannacraft customer page.
//
// The page is rendered from the site package's definitions. Navigation, validation, and the
// star widget run in the browser; nothing a customer types is sent back to the server.
package storefront

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/cannacraft/storefront/engine"
	"github.com/cannacraft/storefront/site"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

// ServiceName is reported by the health probe so callers can tell the storefront apart from
// whatever else might be listening on a port.
const ServiceName = "cannacraft-storefront"

const qrSize = 256 // pixels

type Module struct {
	self *url.URL
}

// New returns the module. self is the public base URL encoded into QR codes; when nil the
// request's host is used.
func New(self *url.URL) *Module {
	return &Module{self: self}
}

func (m *Module) AttachRoutes(router *engine.Router) {
	router.Handle("GET", "/", m.renderPage)
	router.Handle("GET", "/index.html", m.renderPage)
	router.Handle("GET", "/qr/:section", m.renderQR)
	router.Handle("GET", "/healthz", engine.ServeHealthProbe(ServiceName))
	router.ServeFiles("/assets/*filepath", http.FS(assets))
}

func (m *Module) renderPage(r *http.Request, ps httprouter.Params) engine.Response {
	nav := site.NewNavigator(site.SectionID(r.URL.Query().Get("section")))
	page, err := renderPage(nav, RenderOptions{QRPath: "/qr/" + string(site.Feedback)})
	if err != nil {
		return engine.Error(err)
	}
	return engine.Component(page)
}

func (m *Module) renderQR(r *http.Request, ps httprouter.Params) engine.Response {
	section, err := site.LookupSection(site.SectionID(ps.ByName("section")))
	if err != nil {
		return engine.ClientErrorf(http.StatusNotFound, "Unknown section")
	}

	link := m.sectionURL(r, section.ID)
	png, err := qrcode.Encode(link, qrcode.Medium, qrSize)
	if err != nil {
		return engine.Error(fmt.Errorf("encoding qr code: %w", err))
	}
	slog.Debug("rendered qr code", "section", section.ID, "url", link)
	return engine.Bytes("image/png", png)
}

func (m *Module) sectionURL(r *http.Request, id site.SectionID) string {
	base := m.self
	if base == nil {
		base = &url.URL{Scheme: "http", Host: r.Host}
	}
	u := *base
	u.Path = "/"
	u.RawQuery = url.Values{"section": {string(id)}}.Encode()
	return u.String()
}
