package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ordersCSV = `id_commande,prix,catégorie,note_client,retour,id_client,id_produit
A1,25.5,Livres,4.5,0,10,100
A2,310,Électronique,,0,11,101
A3,480,Électronique,1.5,1,12,102
A4,60,,4,0,13,103
A5,220,Vêtements,2,1,14,104
`

func TestScoreCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "orders.csv")
	require.NoError(t, os.WriteFile(in, []byte(ordersCSV), 0o600))
	xlsx := filepath.Join(dir, "scored.xlsx")
	png := filepath.Join(dir, "hist.png")

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"score", in, "--out", xlsx, "--chart", png})
	require.NoError(t, root.Execute())

	assert.Contains(t, out.String(), "Return rate: 40.00%")
	assert.Contains(t, out.String(), "A1")
	assert.FileExists(t, xlsx)
	assert.FileExists(t, png)
}

func TestScoreCommandMissingFile(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"score", filepath.Join(t.TempDir(), "none.csv")})
	assert.Error(t, root.Execute())
}
