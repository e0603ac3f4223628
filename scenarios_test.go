package sigil

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type scenarioFile struct {
	Scenarios []scenarioCase `yaml:"scenarios"`
}

type scenarioCase struct {
	Name          string         `yaml:"name"`
	ReturnsInt32  bool           `yaml:"returns_int32"`
	Steps         []scenarioStep `yaml:"steps"`
	WantResult    *int32         `yaml:"want_result"`
	WantErrorKind string         `yaml:"want_error_kind"`
}

type scenarioStep struct {
	Op    string `yaml:"op"`
	Value int32  `yaml:"value"`
}

// TestScenarios data-drives a handful of arithmetic and control-flow programs from
// testdata/scenarios.yaml, each either succeeding with a checked result or failing with a
// checked VerificationError Kind.
func TestScenarios(t *testing.T) {
	raw, err := os.ReadFile("testdata/scenarios.yaml")
	require.NoError(t, err)

	var file scenarioFile
	require.NoError(t, yaml.Unmarshal(raw, &file))
	require.NotEmpty(t, file.Scenarios)

	for _, sc := range file.Scenarios {
		sc := sc
		t.Run(sc.Name, func(t *testing.T) {
			var ret *StackType
			if sc.ReturnsInt32 {
				r := Int32Type
				ret = &r
			}
			e := NewEmitter(sc.Name, nil, ret, DefaultConfig())

			var buildErr error
			for _, step := range sc.Steps {
				if buildErr != nil {
					break
				}
				buildErr = applyStep(e, step)
			}

			if sc.WantErrorKind != "" {
				require.Error(t, buildErr)
				var verr *VerificationError
				require.ErrorAs(t, buildErr, &verr)
				assert.Equal(t, sc.WantErrorKind, string(verr.Kind))
				return
			}
			require.NoError(t, buildErr)

			delegate, err := e.CreateDelegate()
			require.NoError(t, err)
			result, err := delegate()
			require.NoError(t, err)

			if sc.WantResult != nil {
				assert.Equal(t, *sc.WantResult, result)
			}
		})
	}
}

func applyStep(e *Emitter, step scenarioStep) error {
	switch step.Op {
	case "ldc_i4":
		return e.LoadConstantInt32(step.Value)
	case "add":
		return e.Add()
	case "sub":
		return e.Sub()
	case "mul":
		return e.Mul()
	case "div":
		return e.Div()
	case "ret":
		return e.Ret()
	default:
		return e.errorf(KindInvalidOperation, "scenarios_test: unknown step op %q", step.Op)
	}
}
