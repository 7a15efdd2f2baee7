package calculator

// BinaryRequest is the JSON body for add, subtract, multiply and divide.
type BinaryRequest struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
}

// BinaryResponse is the JSON response for a binary operation.
type BinaryResponse struct {
	Operation Op      `json:"operation"`
	A         float64 `json:"a"`
	B         float64 `json:"b"`
	Result    float64 `json:"result"`
}

// ChainStepRequest is one step of POST /calculator/chain.
type ChainStepRequest struct {
	Op    Op      `json:"op"`
	Value float64 `json:"value"`
}

// ChainRequest is the JSON body for POST /calculator/chain.
type ChainRequest struct {
	Initial float64            `json:"initial"`
	Steps   []ChainStepRequest `json:"steps"`
}

// ChainStepResponse records one executed step.
type ChainStepResponse struct {
	Op     Op      `json:"op"`
	Value  float64 `json:"value"`
	Result float64 `json:"result"`
}

// ChainResponse is the JSON response for POST /calculator/chain.
type ChainResponse struct {
	Initial float64             `json:"initial"`
	Steps   []ChainStepResponse `json:"steps"`
	Result  float64             `json:"result"`
}

// EvaluateRequest is the JSON body for POST /calculator/evaluate.
type EvaluateRequest struct {
	Expression string             `json:"expression"`
	Params     map[string]float64 `json:"params,omitempty"`
}

// EvaluateResponse is the JSON response for POST /calculator/evaluate.
type EvaluateResponse struct {
	Expression string  `json:"expression"`
	Result     float64 `json:"result"`
}
