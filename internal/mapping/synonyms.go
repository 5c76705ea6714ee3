package mapping

// Role identifies a semantic column role the mapper resolves.
type Role int

const (
	RoleDate Role = iota
	RoleDescription
	RoleAmount
	RoleType
	RoleCheckNumber
)

func (r Role) String() string {
	switch r {
	case RoleDate:
		return "date"
	case RoleDescription:
		return "description"
	case RoleAmount:
		return "amount"
	case RoleType:
		return "type"
	case RoleCheckNumber:
		return "check_number"
	default:
		return "unknown"
	}
}

// synonyms lists header spellings per role, including common non-English
// terms seen in real exports (Portuguese, Spanish, French, German).
var synonyms = map[Role][]string{
	RoleDate: {
		"date", "transaction date", "posting date", "posted date", "post date",
		"value date", "data", "data mov", "data mov.", "data valor",
		"fecha", "datum", "booking date",
	},
	RoleDescription: {
		"description", "descrição", "descricao", "descripción", "descripcion",
		"merchant", "payee", "details", "detail", "memo", "narrative",
		"particulars", "name", "nome", "transaction", "reference",
	},
	RoleAmount: {
		"amount", "valor", "importe", "value", "montant", "montante",
		"debit", "credit", "débito", "debito", "crédito", "credito",
		"cargo", "abono", "withdrawal", "deposit", "betrag",
	},
	RoleType: {
		"type", "tipo", "category", "categoria", "transaction type",
		"trans type", "kind", "details type",
	},
	RoleCheckNumber: {
		"check number", "check no", "check num", "check #", "check#",
		"cheque number", "cheque no", "chk no", "chk #",
	},
}

// roles is the resolution order. Amount resolves after description so a
// header like "Transaction Description" is not consumed by the amount
// search for "transaction"; check number resolves last because its
// synonyms are full phrases no earlier role claims.
var roles = []Role{RoleDate, RoleDescription, RoleAmount, RoleType, RoleCheckNumber}
