package main

import (
	"bytes"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestNormalizeCommand(t *testing.T) {
	t.Parallel()

	{
		out, err := execute(t, "normalize", `$25 \mathrm{m/s}$`)
		if err != nil {
			t.Fatalf("execute: %v", err)
		}
		if !strings.Contains(out, "Category: physical_quantity") {
			t.Fatalf("got output:\n%s", out)
		}
		if !strings.Contains(out, "Value: 25 m/s") || !strings.Contains(out, "Unit: m/s") {
			t.Fatalf("got output:\n%s", out)
		}
	}
	{
		out, err := execute(t, "normalize", "500")
		if err != nil {
			t.Fatalf("execute: %v", err)
		}
		if !strings.Contains(out, "Category: number") || !strings.Contains(out, "Value: 500") {
			t.Fatalf("got output:\n%s", out)
		}
		if strings.Contains(out, "Unit:") {
			t.Fatalf("number must not print a unit:\n%s", out)
		}
	}
	{
		if _, err := execute(t, "normalize"); err == nil {
			t.Fatalf("missing arg: expected error")
		}
	}
}

func TestCompareCommand(t *testing.T) {
	t.Parallel()

	{
		out, err := execute(t, "compare", `$\frac{2}{3}$`, "2/3")
		if err != nil {
			t.Fatalf("execute: %v", err)
		}
		if !strings.Contains(out, "Result: MATCH") || !strings.Contains(out, "Method: numeric_sigfig") {
			t.Fatalf("got output:\n%s", out)
		}
	}
	{
		out, err := execute(t, "compare", "3", "4")
		if err != nil {
			t.Fatalf("execute: %v", err)
		}
		if !strings.Contains(out, "Result: DIFF") || !strings.Contains(out, "Reason:") {
			t.Fatalf("got output:\n%s", out)
		}
	}
	{
		out, err := execute(t, "compare", "--category", "option", "A, C", "C and A")
		if err != nil {
			t.Fatalf("execute: %v", err)
		}
		if !strings.Contains(out, "Result: MATCH") || !strings.Contains(out, "Method: option_set") {
			t.Fatalf("got output:\n%s", out)
		}
	}
	{
		out, err := execute(t, "compare", "--output", "json", "500", "500")
		if err != nil {
			t.Fatalf("execute: %v", err)
		}
		if !strings.Contains(out, `"matched": true`) {
			t.Fatalf("got output:\n%s", out)
		}
	}
	{
		if _, err := execute(t, "compare", "--output", "xml", "1", "1"); err == nil {
			t.Fatalf("unknown format: expected error")
		}
	}
}
