package domain

import "database/sql"

type Product struct {
	ID        int64   `db:"product_id" json:"product_id"`
	Name      string  `db:"pname" json:"Pname"`
	Price     float64 `db:"price" json:"price"`
	Sizes     *string `db:"sizes" json:"sizes"`
	Images    *string `db:"images" json:"images"`
	SizeType  *string `db:"size_type" json:"size_type"`
	SizeValue *string `db:"size_value" json:"size_value"`
	CreatedAt string  `db:"created_at" json:"created_at"`
	UpdatedAt string  `db:"updated_at" json:"updated_at,omitempty"`
}

// ProductFields is the writable part of a product. A nil field is stored as NULL;
// required columns are enforced by the store, not here.
type ProductFields struct {
	Name      *string  `json:"Pname" form:"Pname"`
	Price     *float64 `json:"price" form:"price"`
	Sizes     *string  `json:"sizes" form:"sizes"`
	Images    *string  `json:"images" form:"images"`
	SizeType  *string  `json:"size_type" form:"size_type"`
	SizeValue *string  `json:"size_value" form:"size_value"`
}

// Args returns the fields in column order: pname, price, sizes, images, size_type, size_value.
func (f ProductFields) Args() []any {
	return []any{
		nullString(f.Name),
		nullFloat(f.Price),
		nullString(f.Sizes),
		nullString(f.Images),
		nullString(f.SizeType),
		nullString(f.SizeValue),
	}
}

type QRCode struct {
	ID        int64  `db:"qr_id" json:"qr_id"`
	ProductID int64  `db:"product_id" json:"product_id"`
	CreatedAt string `db:"created_at" json:"created_at"`
}

type Admin struct {
	ID        int64   `db:"admin_id" json:"admin_id"`
	Username  string  `db:"username" json:"username"`
	Hash      string  `db:"password" json:"-"`
	FName     *string `db:"fname" json:"fname"`
	LName     *string `db:"lname" json:"lname"`
	MName     *string `db:"mname" json:"mname"`
	Suffix    *string `db:"suffix" json:"suffix"`
	Age       *int64  `db:"age" json:"age"`
	Address   *string `db:"address" json:"address"`
	Images    *string `db:"images" json:"images"`
	CreatedAt string  `db:"created_at" json:"created_at"`
}

// AdminProfile holds the editable admin columns.
type AdminProfile struct {
	FName   *string
	LName   *string
	MName   *string
	Suffix  *string
	Age     *int64
	Address *string
	Images  *string
}

// Args returns fname, lname, mname, suffix, age, address, images in column order.
func (p AdminProfile) Args() []any {
	age := sql.NullInt64{}
	if p.Age != nil {
		age = sql.NullInt64{Int64: *p.Age, Valid: true}
	}
	return []any{
		nullString(p.FName),
		nullString(p.LName),
		nullString(p.MName),
		nullString(p.Suffix),
		age,
		nullString(p.Address),
		nullString(p.Images),
	}
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
