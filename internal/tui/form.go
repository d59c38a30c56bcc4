package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jshoplabs/jshop/pkg/client"
	"github.com/jshoplabs/jshop/pkg/domain"
)

type formField int

const (
	fieldName formField = iota
	fieldPrice
	fieldDescription
	fieldImage
	numFormFields
)

var formLabels = [numFormFields]string{"name", "price", "description", "image"}

// productForm is the shared add/edit form. Validation runs locally on submit;
// a form that fails validation never reaches the network.
type productForm struct {
	fields       [numFormFields]string
	focus        formField
	errMsg       string
	requireImage bool
	productID    string // empty for add
}

// newAddForm returns a blank form for creating a product. A new product must
// ship with an image, so the image path is mandatory.
func newAddForm() productForm {
	return productForm{requireImage: true}
}

// newEditForm returns a form prefilled from an existing product. The image
// path stays empty; leaving it empty keeps the server-side image.
func newEditForm(p domain.Product) productForm {
	f := productForm{productID: p.ID}
	f.fields[fieldName] = p.Name
	f.fields[fieldPrice] = strconv.FormatFloat(p.Price, 'f', -1, 64)
	f.fields[fieldDescription] = p.Description
	return f
}

func (f productForm) update(msg tea.KeyMsg) productForm {
	f.errMsg = ""
	switch msg.String() {
	case "tab", "down":
		f.focus = (f.focus + 1) % numFormFields
	case "shift+tab", "up":
		f.focus = (f.focus - 1 + numFormFields) % numFormFields
	case "enter":
		f.focus = (f.focus + 1) % numFormFields
	case "backspace":
		f.fields[f.focus] = editRune(f.fields[f.focus], "backspace")
	default:
		key := msg.String()
		if len(key) == 1 {
			f.fields[f.focus] = editRune(f.fields[f.focus], key)
		}
	}
	return f
}

// validate checks the form without any network I/O. On failure errMsg is set
// and ok is false.
func (f productForm) validate() (productForm, bool) {
	if strings.TrimSpace(f.fields[fieldName]) == "" {
		f.errMsg = "name is required"
		return f, false
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(f.fields[fieldPrice]), 64)
	if err != nil || price <= 0 {
		f.errMsg = "price must be a positive number"
		return f, false
	}
	if f.requireImage && strings.TrimSpace(f.fields[fieldImage]) == "" {
		f.errMsg = "image is required"
		return f, false
	}
	return f, true
}

func (f productForm) request() client.ProductForm {
	return client.ProductForm{
		Name:        strings.TrimSpace(f.fields[fieldName]),
		Price:       strings.TrimSpace(f.fields[fieldPrice]),
		Description: strings.TrimSpace(f.fields[fieldDescription]),
		ImagePath:   strings.TrimSpace(f.fields[fieldImage]),
	}
}

func (f productForm) view(title string, busy bool) string {
	var b strings.Builder
	b.WriteString(modalTitleStyle.Render(title) + "\n\n")

	for i := formField(0); i < numFormFields; i++ {
		label := formLabels[i]
		value := f.fields[i]
		cursor := " "
		style := metaStyle
		if i == f.focus {
			cursor = ">"
			style = selectedStyle
		}
		displayValue := value
		if i == f.focus {
			displayValue += "█"
		}
		if i == fieldImage && value == "" && i != f.focus {
			hint := "path to image file"
			if !f.requireImage {
				hint = "path to image file (blank keeps current)"
			}
			displayValue = inputPlaceholderStyle.Render(hint)
		}
		fmt.Fprintf(&b, "%s %s: %s\n", cursor, style.Render(label), displayValue)
	}

	b.WriteString("\n")
	switch {
	case busy:
		b.WriteString(dimStyle.Render("saving..."))
	case f.errMsg != "":
		b.WriteString(errorStyle.Render(f.errMsg))
	default:
		b.WriteString(metaStyle.Render("ctrl+s save · esc cancel"))
	}

	return modalBoxStyle.Render(b.String())
}
