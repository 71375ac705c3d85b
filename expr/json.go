package expr

import (
	"encoding/json"
	"fmt"
	"math/big"
)

// ToJSON serializes an expression tree to JSON.
func ToJSON(e Expr) ([]byte, error) {
	return json.Marshal(e.toJSON())
}

// FromJSON rebuilds an expression from the output of ToJSON.
func FromJSON(data []byte) (Expr, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return fromTree(raw)
}

func fromTree(raw map[string]any) (Expr, error) {
	typ, _ := raw["type"].(string)
	switch typ {
	case "num":
		s, _ := raw["value"].(string)
		r, ok := new(big.Rat).SetString(s)
		if !ok {
			return nil, fmt.Errorf("expr: bad numeric value %q", s)
		}
		return R(r), nil
	case "sym":
		name, _ := raw["name"].(string)
		if name == "" {
			return nil, fmt.Errorf("expr: symbol without a name")
		}
		return S(name), nil
	case "imag":
		return I(), nil
	case "add":
		kids, err := fromChildren(raw["terms"])
		if err != nil {
			return nil, err
		}
		return AddOf(kids...), nil
	case "mul":
		kids, err := fromChildren(raw["factors"])
		if err != nil {
			return nil, err
		}
		return MulOf(kids...), nil
	case "pow":
		base, err := fromChild(raw["base"])
		if err != nil {
			return nil, err
		}
		exp, err := fromChild(raw["exp"])
		if err != nil {
			return nil, err
		}
		return PowOf(base, exp), nil
	case "func":
		name, _ := raw["name"].(string)
		if !knownFuncs[name] {
			return nil, fmt.Errorf("expr: unknown function %q", name)
		}
		arg, err := fromChild(raw["arg"])
		if err != nil {
			return nil, err
		}
		return funcOf(name, arg).Simplify(), nil
	case "integral":
		of, err := fromChild(raw["of"])
		if err != nil {
			return nil, err
		}
		v, _ := raw["var"].(string)
		if v == "" {
			return nil, fmt.Errorf("expr: integral without a variable")
		}
		return IntegralOf(of, v), nil
	}
	return nil, fmt.Errorf("expr: unknown node type %q", typ)
}

func fromChild(raw any) (Expr, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expr: malformed child node")
	}
	return fromTree(m)
}

func fromChildren(raw any) ([]Expr, error) {
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("expr: malformed child list")
	}
	out := make([]Expr, 0, len(list))
	for _, item := range list {
		e, err := fromChild(item)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
