package e2e

import (
	"fmt"
	"testing"

	"github.com/cannacraft/storefront/site"
	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/require"
)

// StorefrontPage is the single page with its four sections.
type StorefrontPage struct {
	t    *testing.T
	page playwright.Page
}

func NewStorefrontPage(t *testing.T, page playwright.Page) *StorefrontPage {
	return &StorefrontPage{t: t, page: page}
}

func (p *StorefrontPage) Navigate() {
	_, err := p.page.Goto(target.URL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
	})
	require.NoError(p.t, err)
	require.NoError(p.t, expect(p.t).Locator(p.page.Locator("body")).ToBeVisible(), "page did not render")
}

func (p *StorefrontPage) NavButtons() playwright.Locator {
	return p.page.Locator(".nav-links button")
}

// NavButton finds a nav button by its exact label.
func (p *StorefrontPage) NavButton(label string) playwright.Locator {
	return p.page.Locator(fmt.Sprintf(".nav-links button:text-is(%q)", label))
}

// Open clicks the nav button for the section.
func (p *StorefrontPage) Open(id site.SectionID) {
	section, err := site.LookupSection(id)
	require.NoError(p.t, err)
	require.NoError(p.t, p.NavButton(section.NavLabel).Click())
	p.ExpectActive(id)
}

func (p *StorefrontPage) Section(id site.SectionID) playwright.Locator {
	return p.page.Locator("#" + string(id))
}

// ExpectActive asserts that id is the one and only active section.
func (p *StorefrontPage) ExpectActive(id site.SectionID) {
	p.t.Helper()
	require.NoError(p.t, expect(p.t).Locator(p.Section(id)).ToHaveClass(activeClass))
	require.NoError(p.t, expect(p.t).Locator(p.Section(id)).ToBeVisible())
	require.NoError(p.t, expect(p.t).Locator(p.page.Locator(".page.active")).ToHaveCount(1))
}

func (p *StorefrontPage) Heading(id site.SectionID) playwright.Locator {
	if id == site.Home {
		return p.page.Locator(".hero h1")
	}
	return p.Section(id).Locator("h2")
}

func (p *StorefrontPage) Form(form site.Form) *FormPage {
	return &FormPage{t: p.t, page: p.page, form: form, root: p.page.Locator("#" + form.ID)}
}

// FormPage is one of the forms, scoped to its element so field names shared between forms don't collide.
type FormPage struct {
	t    *testing.T
	page playwright.Page
	form site.Form
	root playwright.Locator
}

func (f *FormPage) Field(name string) playwright.Locator {
	return f.root.Locator(fmt.Sprintf("[name=%q]", name))
}

func (f *FormPage) Fill(name, value string) {
	f.t.Helper()
	require.NoError(f.t, f.Field(name).Fill(value), "filling %s", name)
}

// FillAll fills every field present in values. The rating is set through the stars.
func (f *FormPage) FillAll(values map[string]string) {
	f.t.Helper()
	for _, field := range f.form.Fields {
		v, ok := values[field.Name]
		if !ok || field.Type == site.InputRating {
			continue
		}
		f.Fill(field.Name, v)
	}
}

func (f *FormPage) Value(name string) string {
	f.t.Helper()
	v, err := f.Field(name).InputValue()
	require.NoError(f.t, err)
	return v
}

// ValidationMessage is the browser's native constraint validation message for the field.
func (f *FormPage) ValidationMessage(name string) string {
	f.t.Helper()
	msg, err := f.Field(name).Evaluate("el => el.validationMessage", nil)
	require.NoError(f.t, err)
	s, _ := msg.(string)
	return s
}

func (f *FormPage) Stars() playwright.Locator { return f.root.Locator(".star") }

func (f *FormPage) ActiveStars() playwright.Locator { return f.root.Locator(".star.active") }

// ClickStar clicks the nth star, 1-indexed.
func (f *FormPage) ClickStar(n int) {
	f.t.Helper()
	require.NoError(f.t, f.Stars().Nth(n-1).Click())
}

func (f *FormPage) Save() {
	f.t.Helper()
	require.NoError(f.t, f.root.Locator(".btn-save").Click())
}

func (f *FormPage) Cancel() {
	f.t.Helper()
	require.NoError(f.t, f.root.Locator(".btn-cancel").Click())
}

func (f *FormPage) Banner() playwright.Locator {
	return f.page.Locator("#" + f.form.SuccessID)
}

func (f *FormPage) ExpectSuccess() {
	f.t.Helper()
	require.NoError(f.t, expect(f.t).Locator(f.Banner()).ToHaveClass(showClass))
	require.NoError(f.t, expect(f.t).Locator(f.Banner()).ToBeVisible())
	require.NoError(f.t, expect(f.t).Locator(f.Banner()).ToContainText(f.form.SuccessMessage))
}

func (f *FormPage) ExpectNoSuccess() {
	f.t.Helper()
	require.NoError(f.t, expect(f.t).Locator(f.Banner()).Not().ToHaveClass(showClass))
	require.NoError(f.t, expect(f.t).Locator(f.Banner()).ToBeHidden())
}

func (f *FormPage) DismissBanner() {
	f.t.Helper()
	require.NoError(f.t, f.Banner().Locator(".close-banner").Click())
}
