package commands_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boddenberg/financeiro-bfa-go/internal/commands"
)

const nbsp = "\u00a0"

func runLedger(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	t.Setenv("LOCALE", "")
	t.Setenv("LOG_LEVEL", "info")

	var out, errOut bytes.Buffer
	cmd := commands.NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

type fakeAPI struct {
	mu      sync.Mutex
	created []map[string]any
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/transactions":
		io.WriteString(w, `[
			{"type":"despesa","description":"Aluguel","value":1200,"date":"2024-01-02"},
			{"type":"receita","description":"Salário","value":3500.5,"date":"2024-01-05"}
		]`)
	case r.Method == http.MethodGet && r.URL.Path == "/api/summary":
		io.WriteString(w, `{"receitas":3500.5,"despesas":1200,"saldo":2300.5}`)
	case r.Method == http.MethodPost && r.URL.Path == "/api/transactions":
		var tx map[string]any
		json.NewDecoder(r.Body).Decode(&tx)
		if tx["description"] == "" {
			io.WriteString(w, `{"error":"descrição obrigatória"}`)
			return
		}
		f.created = append(f.created, tx)
		io.WriteString(w, `{"message":"ok"}`)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func TestNormalize(t *testing.T) {
	out, _, err := runLedger(t, "normalize", "10")
	require.NoError(t, err)
	assert.Equal(t, "10.00\n", out)

	out, _, err = runLedger(t, "normalize", "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc\n", out)
}

func TestNormalize_RequiresOneArg(t *testing.T) {
	_, _, err := runLedger(t, "normalize")
	assert.Error(t, err)
}

func TestShow(t *testing.T) {
	srv := httptest.NewServer(&fakeAPI{})
	defer srv.Close()

	out, _, err := runLedger(t, "show", "--api-url", srv.URL)
	require.NoError(t, err)

	assert.Less(t, strings.Index(out, "Salário"), strings.Index(out, "Aluguel"), "newest first")
	assert.Contains(t, out, "05/01/2024")
	assert.Contains(t, out, "R$"+nbsp+"3.500,50")
	assert.Contains(t, out, "R$"+nbsp+"2.300,50")
}

func TestShow_EnglishLocale(t *testing.T) {
	srv := httptest.NewServer(&fakeAPI{})
	defer srv.Close()

	out, _, err := runLedger(t, "show", "--api-url", srv.URL, "--locale", "en-US")
	require.NoError(t, err)
	assert.Contains(t, out, "$3,500.50")
	assert.Contains(t, out, "Income")
}

func TestShow_APIDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, errOut, err := runLedger(t, "show", "--api-url", srv.URL)
	require.Error(t, err)
	assert.Contains(t, errOut, "Erro ao carregar transações")
	assert.Contains(t, errOut, "Erro ao atualizar resumo")
}

func TestAdd(t *testing.T) {
	api := &fakeAPI{}
	srv := httptest.NewServer(api)
	defer srv.Close()

	out, errOut, err := runLedger(t, "add", "--api-url", srv.URL,
		"--type", "receita", "--description", "Freela", "--value", "800", "--date", "2024-02-10")
	require.NoError(t, err)

	api.mu.Lock()
	defer api.mu.Unlock()
	require.Len(t, api.created, 1)
	assert.Equal(t, "Freela", api.created[0]["description"])
	assert.Equal(t, float64(800), api.created[0]["value"])
	assert.Equal(t, "2024-02-10", api.created[0]["date"])

	assert.Contains(t, errOut, "valor: 800.00")
	assert.Contains(t, out, "Salário", "refreshed table is printed")
}

func TestAdd_Rejected(t *testing.T) {
	srv := httptest.NewServer(&fakeAPI{})
	defer srv.Close()

	out, errOut, err := runLedger(t, "add", "--api-url", srv.URL, "--description", "", "--value", "5")
	require.Error(t, err)
	assert.Contains(t, errOut, "Erro ao adicionar transação: descrição obrigatória")
	assert.Empty(t, out, "no refresh after a rejected submit")
}

func TestAdd_RequiresFlags(t *testing.T) {
	_, _, err := runLedger(t, "add")
	assert.Error(t, err)
}
