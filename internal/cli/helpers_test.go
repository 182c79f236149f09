package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

const squarePlusOneYAML = `name: square_plus_one
kind: single
variables:
  - {name: x, value: 2}
steps:
  - {out: sq, op: mul, args: [x, x]}
  - {out: f, op: add_const, args: [sq, "1"]}
result: f
expect:
  value: 5
  gradient: [4]
  display: "5+4∆"
`

const sparseProductYAML = `name: sparse_product
kind: sparse
variables:
  - {name: x, value: 2}
  - {name: y, value: 3}
steps:
  - {out: f, op: mul, args: [x, y]}
result: f
expect:
  value: 6
  partials: {x: 3, y: 2}
`

const wrongValueYAML = `name: wrong_value
kind: single
variables:
  - {name: x, value: 2}
steps:
  - {out: f, op: mul, args: [x, x]}
result: f
expect:
  value: 5
`

const logZeroYAML = `name: log_zero
kind: single
variables:
  - {name: x, value: 0}
steps:
  - {out: f, op: log, args: [x]}
result: f
expect:
  value: -.inf
  gradient: [.inf]
`

const idealGasYAML = `name: ideal_gas
description: "P*V - n*T with V = 1.618, T = 300, n = 1"
kind: single
variables:
  - {name: p, value: 1}
steps:
  - {out: pv, op: mul_const, args: [p, "1.618"]}
  - {out: f, op: sub_const, args: [pv, "300"]}
result: f
`

const fixedProductCUE = `name: "fixed_product"
kind: "fixed"
variables: [{name: "x", value: 2}, {name: "y", value: 3}]
steps: [{out: "f", op: "mul", args: ["x", "y"]}]
result: "f"
expect: {value: 6, gradient: [3, 2]}
`

// writeFile writes content to dir/name and returns the path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// execute runs cmd with args and returns stdout.
func execute(cmd *cobra.Command, args ...string) (string, error) {
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}
