package catalog

const (
	CategoryAll = "todos"

	ConditionNew     = "novo"
	ConditionGreat   = "otimo"
	ConditionGood    = "bom"
	ConditionRegular = "regular"

	TypeExchange = "troca"
	TypeDonation = "doacao"
)

var categoryLabels = map[string]string{
	"ficcao":     "Ficção",
	"nao-ficcao": "Não-Ficção",
	"tecnico":    "Técnico",
	"autoajuda":  "Autoajuda",
	"infantil":   "Infantil",
	"academico":  "Acadêmico",
	"biografia":  "Biografia",
	"outros":     "Outros",
}

var conditionLabels = map[string]string{
	ConditionNew:     "Novo",
	ConditionGreat:   "Ótimo Estado",
	ConditionGood:    "Bom Estado",
	ConditionRegular: "Estado Regular",
}

var typeLabels = map[string]string{
	TypeExchange: "Troca",
	TypeDonation: "Doação",
}

// Conditions lists the accepted book conditions.
var Conditions = []string{ConditionNew, ConditionGreat, ConditionGood, ConditionRegular}

// Types lists the accepted listing types.
var Types = []string{TypeExchange, TypeDonation}

// CategoryLabel returns the display name of a category, or the raw value
// when it is unknown.
func CategoryLabel(category string) string {
	return labelOr(categoryLabels, category)
}

func ConditionLabel(condition string) string {
	return labelOr(conditionLabels, condition)
}

func TypeLabel(t string) string {
	return labelOr(typeLabels, t)
}

func labelOr(labels map[string]string, key string) string {
	if l, ok := labels[key]; ok {
		return l
	}
	return key
}
