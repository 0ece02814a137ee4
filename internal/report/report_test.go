package report

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cannacraft/storefront/engine/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleOutput = `{"Action":"start","Package":"example.com/e2e"}
{"Action":"run","Package":"example.com/e2e","Test":"TestPageLoad"}
{"Action":"output","Package":"example.com/e2e","Test":"TestPageLoad","Output":"=== RUN   TestPageLoad\n"}
{"Action":"pass","Package":"example.com/e2e","Test":"TestPageLoad","Elapsed":0.5}
{"Action":"run","Package":"example.com/e2e","Test":"TestAddressForm"}
{"Action":"output","Package":"example.com/e2e","Test":"TestAddressForm","Output":"    address_test.go:20: banner not visible\n"}
{"Action":"fail","Package":"example.com/e2e","Test":"TestAddressForm","Elapsed":1.25}
{"Action":"run","Package":"example.com/e2e","Test":"TestQRCode"}
{"Action":"skip","Package":"example.com/e2e","Test":"TestQRCode","Elapsed":0}
{"Action":"output","Package":"example.com/e2e","Output":"FAIL\n"}
{"Action":"fail","Package":"example.com/e2e","Elapsed":2}
not json at all
`

func collect(t *testing.T, output string) *Run {
	c := NewCollector(NewRun("http://127.0.0.1:8000/", "http"))
	_, err := c.ReadFrom(strings.NewReader(output))
	require.NoError(t, err)
	return c.Finish()
}

func TestCollector(t *testing.T) {
	run := collect(t, sampleOutput)

	require.Len(t, run.Cases, 3)
	assert.Equal(t, "TestPageLoad", run.Cases[0].Name)
	assert.Equal(t, StatusPass, run.Cases[0].Status)
	assert.Equal(t, 500*time.Millisecond, run.Cases[0].Elapsed)
	assert.Equal(t, StatusFail, run.Cases[1].Status)
	assert.Contains(t, run.Cases[1].Output, "banner not visible")
	assert.Equal(t, StatusSkip, run.Cases[2].Status)

	require.Len(t, run.Packages, 1)
	assert.Equal(t, StatusFail, run.Packages[0].Status)
	assert.Equal(t, "not json at all\n", run.Output)

	assert.Equal(t, Summary{Total: 3, Passed: 1, Failed: 1, Skipped: 1}, run.Summary())
	assert.False(t, run.Passed())
	assert.False(t, run.Finished.Before(run.Started))
}

func TestCollectorPassing(t *testing.T) {
	run := collect(t, `{"Action":"run","Package":"p","Test":"TestA"}
{"Action":"pass","Package":"p","Test":"TestA","Elapsed":0.1}
{"Action":"pass","Package":"p","Elapsed":0.2}
`)
	assert.True(t, run.Passed())

	t.Run("preflight failure fails the run", func(t *testing.T) {
		run.Preflight = &Preflight{Failure: "page did not load"}
		assert.False(t, run.Passed())
	})
}

func TestCollectorIncomplete(t *testing.T) {
	// The test binary panicked: no terminal event for the test or the package
	run := collect(t, `{"Action":"run","Package":"p","Test":"TestA"}
{"Action":"output","Package":"p","Test":"TestA","Output":"panic: boom\n"}
`)
	require.Len(t, run.Cases, 1)
	assert.Equal(t, StatusRun, run.Cases[0].Status)
	assert.Equal(t, 1, run.Summary().Failed)
	assert.False(t, run.Passed())
}

func TestCollectorBuildFailure(t *testing.T) {
	run := collect(t, `{"ImportPath":"p.test","Action":"build-output","Output":"./x_test.go:3:1: syntax error\n"}
{"ImportPath":"p.test","Action":"build-fail"}
{"Action":"start","Package":"p"}
{"Action":"output","Package":"p","Output":"FAIL\tp [build failed]\n"}
{"Action":"fail","Package":"p","Elapsed":0}
`)
	assert.Empty(t, run.Cases)
	assert.Contains(t, run.Output, "syntax error")
	assert.False(t, run.Passed())
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	run := collect(t, sampleOutput)
	png := []byte("\x89PNG\r\n\x1a\nimage-data")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "screenshots"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "screenshots", "home.png"), png, 0644))
	run.Preflight = &Preflight{
		Title: "Cannacraft - Customer Care",
		Screenshots: []string{
			filepath.Join(dir, "screenshots", "home.png"),
			filepath.Join(dir, "screenshots", "missing.png"),
		},
	}

	require.NoError(t, Write(context.Background(), dir, run))

	f, err := os.Open(filepath.Join(dir, HTMLFileName))
	require.NoError(t, err)
	defer f.Close()
	doc, err := goquery.NewDocumentFromReader(f)
	require.NoError(t, err)

	assert.Equal(t, "Failed", doc.Find("#status").Text())
	assert.Equal(t, "1 passed, 1 failed, 1 skipped of 3", doc.Find("#summary").Text())
	assert.Equal(t, 3, doc.Find("#cases tr.case").Length())
	assert.Equal(t, 1, doc.Find("#cases .badge.fail").Length())
	assert.Contains(t, doc.Find("#cases pre").Text(), "banner not visible")
	imgs := doc.Find(".shots img")
	require.Equal(t, 2, imgs.Length())
	src := imgs.Eq(0).AttrOr("src", "")
	require.True(t, strings.HasPrefix(src, "data:image/png;base64,"), "screenshot is inlined: %.40s", src)
	img, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(src, "data:image/png;base64,"))
	require.NoError(t, err)
	assert.Equal(t, png, img)
	assert.Equal(t, "screenshots/missing.png", imgs.Eq(1).AttrOr("src", ""), "unreadable screenshots are linked")
	assert.Equal(t, 0, doc.Find("link[rel=stylesheet]").Length(), "report is self-contained")

	js, err := os.ReadFile(filepath.Join(dir, JSONFileName))
	require.NoError(t, err)
	decoded := &Run{}
	require.NoError(t, json.Unmarshal(js, decoded))
	assert.Equal(t, run.ID, decoded.ID)
	assert.Len(t, decoded.Cases, 3)
	assert.Equal(t, "Cannacraft - Customer Care", decoded.Preflight.Title)
}

func TestHistory(t *testing.T) {
	ctx := context.Background()
	h := NewHistory(db.OpenTest(t))

	older := collect(t, sampleOutput)
	older.Started = time.Now().Add(-time.Hour)
	older.Finished = older.Started.Add(time.Minute)
	require.NoError(t, h.Record(ctx, older, "results/a"))

	newer := collect(t, `{"Action":"pass","Package":"p","Test":"TestA"}
{"Action":"pass","Package":"p"}
`)
	require.NoError(t, h.Record(ctx, newer, "results/b"))

	entries, err := h.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, newer.ID, entries[0].ID)
	assert.True(t, entries[0].OK)
	assert.Equal(t, "results/b", entries[0].ResultsDir)

	assert.Equal(t, older.ID, entries[1].ID)
	assert.False(t, entries[1].OK)
	assert.Equal(t, Summary{Total: 3, Passed: 1, Failed: 1, Skipped: 1}, entries[1].Summary)
	assert.Equal(t, time.Minute, entries[1].Duration())
	assert.Equal(t, "http", entries[1].Mode)

	n, err := h.Prune(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	entries, err = h.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, newer.ID, entries[0].ID)
}
