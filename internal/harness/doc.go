// Package harness evaluates differentiation scenarios against the dual
// package and checks the results.
//
// # Scenario Format
//
// Scenarios are YAML or CUE files. A scenario names its derivative
// representation, its independent variables, a straight-line program of
// dual operations and the expected outcome:
//
//	name: product_rule
//	description: "d(xy) = y dx + x dy"
//	kind: fixed
//	variables:
//	  - {name: x, value: 2}
//	  - {name: y, value: 3}
//	steps:
//	  - {out: f, op: mul, args: [x, y]}
//	result: f
//	expect:
//	  value: 6
//	  gradient: [3, 2]
//	  display: "6+[3.0, 2.0]∆"
//
// CUE files use the same fields and are unified with the #Scenario schema
// embedded in this package, so type errors carry file positions.
//
// # Kinds
//
//   - single: one variable, scalar derivative
//   - fixed: 1 to 8 variables, array derivative
//   - dynamic: slice derivative; variables in different groups get
//     derivatives of different lengths, which lets a scenario exercise the
//     length-mismatch error via expect.error
//   - sparse: ID-keyed partials, reported by variable name
//
// # Deterministic Output
//
// Sparse variables are minted by testutil.DeterministicMinter, so the same
// scenario always renders the same IDs. Results are snapshotted as
// canonical JSON and compared against golden files with goldie.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/product.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, f := range result.Failures {
//	        log.Println(f)
//	    }
//	}
package harness
