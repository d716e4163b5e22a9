package schema

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Canonical column names every resolved table carries.
const (
	OrderID    = "order_id"
	CustomerID = "customer_id"
	ProductID  = "product_id"
	Price      = "price"
	Category   = "category"
	Rating     = "rating"
	Returned   = "returned"
)

// CategoryCode is the derived column holding the encoded category.
const CategoryCode = "category_code"

// Field is one logical column of the canonical schema with the spellings
// accepted for it, highest priority first.
type Field struct {
	Name    string
	Aliases []string
}

// Fields is the canonical order schema. Each alias list starts with the
// canonical name, then the French spellings used by the first source files.
var Fields = []Field{
	{OrderID, []string{"order_id", "id_commande", "id commande", "commande_id", "commande", "order id", "orderid"}},
	{CustomerID, []string{"customer_id", "id_client", "id client", "client_id", "client", "customer id", "customer"}},
	{ProductID, []string{"product_id", "id_produit", "id produit", "produit_id", "produit", "product id", "product"}},
	{Price, []string{"price", "prix", "montant", "amount", "cout"}},
	{Category, []string{"category", "catégorie", "categorie", "type", "secteur"}},
	{Rating, []string{"rating", "note_client", "note client", "note", "score", "evaluation"}},
	{Returned, []string{"returned", "retour", "is_returned", "return_status"}},
}

// Features are the model inputs, in the order the classifier sees them.
var Features = []string{Price, Rating, CategoryCode}

// Normalize maps a column name to its matching key: NFC, trimmed, case folded.
func Normalize(name string) string {
	// Casers carry state, so each call gets its own.
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(name)))
}
