package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/leekchan/accounting"

	"kycpay-web/forms"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = []string{"login.html", "register.html", "dashboard.html", "payment.html"}

var currencySymbols = map[string]string{
	string(forms.CurrencyINR): "₹",
	string(forms.CurrencyUSD): "$",
	string(forms.CurrencyEUR): "€",
	string(forms.CurrencyGBP): "£",
}

type templates struct {
	pages map[string]*template.Template
}

func loadTemplates() (*templates, error) {
	funcs := template.FuncMap{
		"money":   formatMoney,
		"ago":     humanize.Time,
		"dateStr": func(t time.Time) string { return t.Format("2006-01-02 15:04") },
	}

	t := &templates{pages: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		tmpl, err := template.New(page).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", page, err)
		}
		t.pages[page] = tmpl
	}
	return t, nil
}

// render executes into a buffer first so a template error never leaves a
// half written page behind.
func (t *templates) render(w http.ResponseWriter, status int, page string, data interface{}) error {
	tmpl, ok := t.pages[page]
	if !ok {
		http.Error(w, "page not found", http.StatusInternalServerError)
		return fmt.Errorf("unknown page %q", page)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

func formatMoney(amount float64, currency string) string {
	symbol, ok := currencySymbols[currency]
	if !ok {
		symbol = currency + " "
	}
	return accounting.DefaultAccounting(symbol, 2).FormatMoney(amount)
}
