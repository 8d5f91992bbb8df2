package erase

// Ruleset selects how a declared snippet language is lowered.
type Ruleset uint8

const (
	// RulesetPassthrough leaves the source text untouched (already executable).
	RulesetPassthrough Ruleset = iota
	// RulesetErase strips static type syntax before execution.
	RulesetErase
)

func (r Ruleset) String() string {
	switch r {
	case RulesetPassthrough:
		return "passthrough"
	case RulesetErase:
		return "erase"
	}
	return "unknown"
}

// RulesetFor maps a declared language tag to its lowering ruleset.
// Тег языка — рекомендательный: он выбирает набор правил стирания и больше
// ни на что не влияет. Неизвестный тег считается неисполняемым.
func RulesetFor(lang string) (Ruleset, bool) {
	switch lang {
	case "ts", "typescript":
		return RulesetErase, true
	case "js", "javascript", "":
		return RulesetPassthrough, true
	default:
		return RulesetPassthrough, false
	}
}
