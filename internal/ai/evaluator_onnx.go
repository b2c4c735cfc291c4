package ai

import (
	"fmt"
	"sync"

	gonnx "github.com/advancedclimatesystems/gonnx"
	"gorgonia.org/tensor"

	"github.com/kwestra/hexfront/internal/ai/neural"
	"github.com/kwestra/hexfront/pkg/hexmap"
)

// OnnxEvaluator runs a value network over the encoded battlefield and
// returns a position score for the acting side. Loaded once and shared by
// every controller at the top difficulty tier; the mutex serializes Run
// calls because controllers in separate battles may share one model.
type OnnxEvaluator struct {
	model *gonnx.Model
	mu    sync.Mutex
}

// NewOnnxEvaluator loads the value model from disk.
func NewOnnxEvaluator(path string) (*OnnxEvaluator, error) {
	model, err := gonnx.NewModelFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("load value model %s: %w", path, err)
	}
	return &OnnxEvaluator{model: model}, nil
}

// EvaluatePosition encodes the snapshot and runs the value network. Requires
// the concrete hex map; stub maps cannot be encoded.
func (e *OnnxEvaluator) EvaluatePosition(ctx *Context) (float64, error) {
	m, ok := ctx.Map.(*hexmap.Map)
	if !ok {
		return 0, fmt.Errorf("onnx evaluator requires *hexmap.Map, got %T", ctx.Map)
	}

	data := neural.EncodeBattlefield(ctx.State, m, ctx.Side)
	board := tensor.New(
		tensor.WithShape(1, neural.BoardSize(m), neural.NumFeatures),
		tensor.Of(tensor.Float32),
		tensor.WithBacking(data),
	)

	e.mu.Lock()
	outputs, err := e.model.Run(gonnx.Tensors{"board": board})
	e.mu.Unlock()
	if err != nil {
		return 0, fmt.Errorf("value run: %w", err)
	}

	out, ok := outputs["value"]
	if !ok {
		for _, v := range outputs {
			out = v
			break
		}
	}
	if out == nil {
		return 0, fmt.Errorf("no output tensor from value model")
	}

	switch d := out.Data().(type) {
	case []float32:
		if len(d) == 0 {
			return 0, fmt.Errorf("empty value output")
		}
		return float64(d[0]), nil
	case []float64:
		if len(d) == 0 {
			return 0, fmt.Errorf("empty value output")
		}
		return d[0], nil
	case float32:
		return float64(d), nil
	case float64:
		return d, nil
	default:
		return 0, fmt.Errorf("unexpected value output type %T", d)
	}
}
