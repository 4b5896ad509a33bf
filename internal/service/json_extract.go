package service

import (
	"encoding/json"
	"strings"
)

// extractJudgeJSON devuelve el primer objeto JSON del texto que trae puntajes
// ("scores" o "trait_scores"). Los objetos anteriores sin puntajes, por ejemplo el
// formato del prompt repetido por el modelo, se saltean.
func extractJudgeJSON(input string) string {
	for rest := input; rest != ""; {
		obj, end := firstBalancedObject(rest)
		if obj == "" {
			return ""
		}
		if hasScoresKey(obj) {
			return obj
		}
		rest = rest[end:]
	}
	return ""
}

// firstBalancedObject devuelve el primer {...} balanceado y el indice que sigue a su cierre.
// Las llaves dentro de strings no cuentan.
func firstBalancedObject(input string) (string, int) {
	start := strings.IndexByte(input, '{')
	if start == -1 {
		return "", 0
	}

	inString := false
	escape := false
	depth := 0

	for i := start; i < len(input); i++ {
		ch := input[i]

		if inString {
			switch {
			case escape:
				escape = false
			case ch == '\\':
				escape = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return input[start : i+1], i + 1
			}
		}
	}

	return "", 0
}

func hasScoresKey(obj string) bool {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal([]byte(obj), &keys); err != nil {
		return false
	}
	for _, k := range []string{"scores", "trait_scores"} {
		if _, ok := keys[k]; ok {
			return true
		}
	}
	return false
}
