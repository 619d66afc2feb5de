package diagnostic_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/vuetmpls/pkg/diagnostic"
	"github.com/walteh/vuetmpls/pkg/position"
)

func TestCollector(t *testing.T) {
	var logs bytes.Buffer
	ctx := zerolog.New(&logs).WithContext(context.Background())

	c := diagnostic.NewCollector()
	c.Report(ctx, diagnostic.Diagnostic{Message: "Invalid v-for expression: items", Tag: "li", NodeID: 2, Severity: diagnostic.SeverityError})
	c.Report(ctx, diagnostic.Diagnostic{Message: "<template> cannot be keyed.", Tag: "template", NodeID: 3})

	all := c.All()
	require.Len(t, all, 2)
	assert.Equal(t, diagnostic.SeverityWarning, all[1].Severity, "severity defaults to warning")

	diags := c.Diagnostics()
	require.Len(t, diags.Errors, 1)
	require.Len(t, diags.Warnings, 1)
	assert.Equal(t, "li", diags.Errors[0].Tag)

	assert.Contains(t, logs.String(), `"level":"error"`)
	assert.Contains(t, logs.String(), `"message":"<template> cannot be keyed."`)
	assert.Contains(t, logs.String(), `"node":3`)
}

func TestTextFormatter(t *testing.T) {
	source := "<div>\n  <li v-for=\"items\"></li>\n</div>"
	diags := &diagnostic.Diagnostics{
		Errors: []diagnostic.Diagnostic{
			{
				Message:  "Invalid v-for expression: items",
				Tag:      "li",
				Location: position.NewBasicPosition(`<li v-for="items">`, 8),
				Severity: diagnostic.SeverityError,
			},
		},
	}

	out, err := diagnostic.NewTextFormatter().Format(diags, "list.vue", source)
	require.NoError(t, err)
	assert.Equal(t, "list.vue:2:3: error: Invalid v-for expression: items <li>\n", string(out))

	_, err = diagnostic.NewTextFormatter().Format(nil, "list.vue", source)
	assert.Error(t, err)
}

func TestJSONFormatter(t *testing.T) {
	source := "<div>\n<template :key=\"k\"></template>\n</div>"
	diags := &diagnostic.Diagnostics{
		Warnings: []diagnostic.Diagnostic{
			{
				Message:  "<template> cannot be keyed.",
				Tag:      "template",
				Location: position.NewBasicPosition(`<template :key="k">`, 6),
				Severity: diagnostic.SeverityWarning,
			},
		},
	}

	out, err := diagnostic.NewJSONFormatter().Format(diags, "a.vue", source)
	require.NoError(t, err)
	assert.JSONEq(t, `[{
		"file": "a.vue",
		"severity": 2,
		"message": "<template> cannot be keyed.",
		"tag": "template",
		"range": {"start": {"line": 1, "character": 0}, "end": {"line": 1, "character": 19}}
	}]`, string(out))
}

func TestTee(t *testing.T) {
	ctx := zerolog.Nop().WithContext(context.Background())

	a := diagnostic.NewCollector()
	b := diagnostic.NewCollector()
	r := diagnostic.Tee(a, nil, b)

	r.Report(ctx, diagnostic.Diagnostic{Message: "one"})
	r.Report(ctx, diagnostic.Diagnostic{Message: "two", Severity: diagnostic.SeverityError})

	assert.Len(t, a.All(), 2)
	assert.Equal(t, a.All(), b.All())
}
