package tui

import (
	"testing"

	"github.com/jshoplabs/jshop/pkg/domain"
)

func TestAddFormValidation(t *testing.T) {
	f := newAddForm()

	_, ok := f.validate()
	if ok {
		t.Fatal("empty form passed validation")
	}

	f.fields[fieldName] = "Desk"
	f.fields[fieldPrice] = "not a number"
	got, ok := f.validate()
	if ok {
		t.Fatal("non-numeric price passed validation")
	}
	if got.errMsg != "price must be a positive number" {
		t.Errorf("errMsg = %q", got.errMsg)
	}

	f.fields[fieldPrice] = "-5"
	if _, ok := f.validate(); ok {
		t.Fatal("negative price passed validation")
	}

	f.fields[fieldPrice] = "199.99"
	got, ok = f.validate()
	if ok {
		t.Fatal("add form without image passed validation")
	}
	if got.errMsg != "image is required" {
		t.Errorf("errMsg = %q", got.errMsg)
	}

	f.fields[fieldImage] = "/tmp/desk.png"
	if _, ok := f.validate(); !ok {
		t.Fatal("complete add form failed validation")
	}
}

func TestEditFormKeepsImageOptional(t *testing.T) {
	p := domain.Product{ID: "p1", Name: "Desk", Price: 199.99, Description: "walnut"}
	f := newEditForm(p)

	if f.fields[fieldName] != "Desk" || f.fields[fieldPrice] != "199.99" {
		t.Errorf("prefill wrong: %v", f.fields)
	}
	if f.fields[fieldImage] != "" {
		t.Errorf("edit form prefilled image path %q", f.fields[fieldImage])
	}
	if f.productID != "p1" {
		t.Errorf("productID = %q", f.productID)
	}

	if _, ok := f.validate(); !ok {
		t.Fatal("edit form without image should validate")
	}
}

func TestFormRequestTrims(t *testing.T) {
	f := newEditForm(domain.Product{ID: "p1"})
	f.fields[fieldName] = "  Desk  "
	f.fields[fieldPrice] = " 10 "
	f.fields[fieldDescription] = " walnut "

	req := f.request()
	if req.Name != "Desk" || req.Price != "10" || req.Description != "walnut" {
		t.Errorf("request not trimmed: %+v", req)
	}
}
