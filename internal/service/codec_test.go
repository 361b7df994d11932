package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleanshop/cart/internal/domain"
	"github.com/cleanshop/cart/pkg/logger"
)

func TestMarshalEntries_WireFormat(t *testing.T) {
	data, err := marshalEntries([]domain.CartEntry{
		{Name: "Shirt", Price: decimal.NewFromInt(1000), Quantity: 2, Image: "img/shirt.jpg"},
		{Name: "Cap", Price: decimal.RequireFromString("2500.75"), Quantity: 1, Image: ""},
	})
	require.NoError(t, err)

	assert.Equal(t,
		`[{"name":"Shirt","price":1000,"qty":2,"image":"img/shirt.jpg"},{"name":"Cap","price":2500.75,"qty":1,"image":""}]`,
		string(data))
}

func TestMarshalEntries_EmptyIsArray(t *testing.T) {
	data, err := marshalEntries(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestUnmarshalEntries_BrowserFormat(t *testing.T) {
	// written by the storefront scripts via JSON.stringify
	data := []byte(`[{"name":"Ankara Shirt","price":15000,"qty":2,"image":"images/a.jpg"},{"name":"Tote","price":"4500","qty":1,"image":"images/t.jpg"}]`)

	entries, err := unmarshalEntries(data, logger.Discard())
	require.NoError(t, err)

	assert.Equal(t, []row{{"Ankara Shirt", "15000", 2}, {"Tote", "4500", 1}}, rows(entries))
	assert.Equal(t, "images/a.jpg", entries[0].Image)
}

func TestUnmarshalEntries_DropsInvalidEntries(t *testing.T) {
	data := []byte(`[
		{"name":"Shirt","price":1000,"qty":1,"image":""},
		{"name":"","price":1000,"qty":1,"image":""},
		{"name":"NaN","price":null,"qty":1,"image":""},
		{"name":"Free","price":0,"qty":1,"image":""},
		{"name":"Neg","price":-5,"qty":1,"image":""},
		{"name":"Zero","price":10,"qty":0,"image":""},
		{"name":"Broken","price":10,"qty":"many","image":""},
		42,
		{"name":"Shirt","price":900,"qty":3,"image":"other"}
	]`)

	entries, err := unmarshalEntries(data, logger.Discard())
	require.NoError(t, err)

	assert.Equal(t, []row{{"Shirt", "1000", 4}, {"Free", "0", 1}}, rows(entries))
	assert.Equal(t, "", entries[0].Image)
}

func TestUnmarshalEntries_NotAnArray(t *testing.T) {
	_, err := unmarshalEntries([]byte(`{"name":"Shirt"}`), logger.Discard())
	assert.ErrorContains(t, err, "unmarshal cart")
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "1000", want: "1000"},
		{raw: " 999.99 ", want: "999.99"},
		{raw: "1,500", want: "1500"},
		{raw: "₦2,000.50", want: "2000.5"},
		{raw: "0", want: "0"},
		{raw: "1e3", want: "1000"},
		{raw: "", wantErr: true},
		{raw: "abc", wantErr: true},
		{raw: "NaN", wantErr: true},
		{raw: "-1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParsePrice(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPrice)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}
