//
// Tencent is pleased to support the open source community by making finsight available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// finsight is licensed under the Apache License Version 2.0.
//
//

package newspaper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-agent-go/tool"
)

const articlePage = `<!DOCTYPE html>
<html>
<head><title>
  Quarterly Results Beat Estimates
</title></head>
<body>
<h1>Quarterly Results Beat Estimates</h1>
<p>Revenue grew <strong>12 percent</strong> year over year.</p>
<p>Margins expanded on services growth.</p>
</body>
</html>`

func newArticleServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/article":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write([]byte(articlePage))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestReadArticle(t *testing.T) {
	srv := newArticleServer(t)
	ts, err := NewToolSet()
	require.NoError(t, err)
	assert.Equal(t, "newspaper", ts.Name())

	out, err := callRead(t, ts, `{"url":"`+srv.URL+`/article"}`)
	require.NoError(t, err)
	resp, ok := out.(*readResponse)
	require.True(t, ok)

	assert.Equal(t, "Quarterly Results Beat Estimates", resp.Title)
	assert.Contains(t, resp.Content, "# Quarterly Results Beat Estimates")
	assert.Contains(t, resp.Content, "**12 percent**")
	assert.False(t, resp.Truncated)
}

func TestReadArticleTruncates(t *testing.T) {
	srv := newArticleServer(t)
	ts, err := NewToolSet(FromConfig(map[string]any{"max_length": 40})...)
	require.NoError(t, err)

	out, err := callRead(t, ts, `{"url":"`+srv.URL+`/article"}`)
	require.NoError(t, err)
	resp := out.(*readResponse)

	assert.True(t, resp.Truncated)
	assert.Contains(t, resp.Content, "[content truncated]")
	assert.LessOrEqual(t, len(resp.Content), 40+len("\n\n[content truncated]"))
}

func TestReadArticleHTTPError(t *testing.T) {
	srv := newArticleServer(t)
	ts, err := NewToolSet()
	require.NoError(t, err)

	_, err = callRead(t, ts, `{"url":"`+srv.URL+`/missing"}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP status 404")
}

func TestReadArticleEmptyURL(t *testing.T) {
	ts, err := NewToolSet()
	require.NoError(t, err)
	_, err = callRead(t, ts, `{"url":""}`)
	assert.Error(t, err)
}

func TestExtractTitleMissing(t *testing.T) {
	assert.Equal(t, "", extractTitle("<html><body>no title</body></html>"))
}

func callRead(t *testing.T, ts *ToolSet, args string) (any, error) {
	t.Helper()
	tools := ts.Tools(context.Background())
	require.Len(t, tools, 1)
	require.Equal(t, "read_article", tools[0].Declaration().Name)
	callable, ok := tools[0].(tool.CallableTool)
	require.True(t, ok)
	return callable.Call(context.Background(), []byte(args))
}
