package constraint_test

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"go-catalog-api/internal/constraint"
	"go-catalog-api/internal/model"
	"go-catalog-api/internal/testutil"
)

func kinds(t *testing.T, db *gorm.DB, m interface{}) map[string]constraint.Kind {
	t.Helper()
	stmt := &gorm.Statement{DB: db}
	require.NoError(t, stmt.Parse(m))
	out := map[string]constraint.Kind{}
	for _, f := range stmt.Schema.Fields {
		if f.DBName != "" {
			out[f.DBName] = constraint.Classify(f).Kind
		}
	}
	return out
}

func TestClassify(t *testing.T) {
	db := testutil.NewDB(t)

	sup := kinds(t, db, &model.Supplier{})
	assert.Equal(t, constraint.KindGeneral, sup["name"])
	assert.Equal(t, constraint.KindSlug, sup["slug"])
	assert.Equal(t, constraint.KindEnum, sup["company_type"])
	assert.Equal(t, constraint.KindText, sup["address"])
	assert.Equal(t, constraint.KindPhone, sup["contact"])
	assert.Equal(t, constraint.KindEmail, sup["email"])
	assert.Equal(t, constraint.KindSkip, sup["id"])
	assert.Equal(t, constraint.KindSkip, sup["created_by"])
	assert.Equal(t, constraint.KindNonNegative, sup["sequence"])

	sku := kinds(t, db, &model.Sku{})
	assert.Equal(t, constraint.KindSkuNumber, sku["sku_number"])
	assert.Equal(t, constraint.KindSkip, sku["product_id"])

	pd := kinds(t, db, &model.PriceDetail{})
	assert.Equal(t, constraint.KindPositive, pd["price"])
	assert.Equal(t, constraint.KindPositive, pd["minimum_quantity"])

	user := kinds(t, db, &model.User{})
	assert.Equal(t, constraint.KindSkip, user["password"])
	assert.Equal(t, constraint.KindSkip, user["token_version"])
	assert.Equal(t, constraint.KindEnum, user["role"])

	img := kinds(t, db, &model.Image{})
	assert.Equal(t, constraint.KindSkip, img["file"])
	assert.Equal(t, constraint.KindGeneral, img["title"])
}

func TestCheckString(t *testing.T) {
	general := constraint.Column{Name: "name", Kind: constraint.KindGeneral}
	cases := []struct {
		col  constraint.Column
		in   string
		want string
		err  string
	}{
		{general, "  Green Tea  ", "Green Tea", ""},
		{general, "   ", "", "Column 'name' cannot be empty."},
		{general, "1st", "", "Column 'name' must start with a letter."},
		{general, "Tea!", "", "Column 'name' can only contain alphabet letters, numbers, underscores, and spaces."},
		{constraint.Column{Name: "title", Kind: constraint.KindGeneral, Nullable: true}, " ", "", ""},
		{constraint.Column{Name: "email", Kind: constraint.KindEmail}, " Foo@Example.COM ", "foo@example.com", ""},
		{constraint.Column{Name: "email", Kind: constraint.KindEmail}, "foo", "", "Column 'email' must contain '@'."},
		{constraint.Column{Name: "email", Kind: constraint.KindEmail}, "@foo", "", "Column 'email' must not start or end with '@'"},
		{constraint.Column{Name: "contact", Kind: constraint.KindPhone}, "0812-3456", "", "Column 'contact' must contain only digits."},
		{constraint.Column{Name: "contact", Kind: constraint.KindPhone}, "08123456", "08123456", ""},
		{constraint.Column{Name: "description", Kind: constraint.KindText}, " Any text! ", "Any text!", ""},
		{constraint.Column{Name: "company_type", Kind: constraint.KindEnum}, "pt", "PT", ""},
		{constraint.Column{Name: "slug", Kind: constraint.KindSlug}, "Green Tea", "", "Column 'slug' can only contain lowercase letters, numbers and dashes."},
		{constraint.Column{Name: "code", Kind: constraint.KindCode}, "RETAIL-1", "RETAIL-1", ""},
		{constraint.Column{Name: "sku_number", Kind: constraint.KindSkuNumber}, "ABC", "", "Column 'sku_number' must be 10 uppercase hexadecimal characters."},
	}
	for _, tc := range cases {
		got, err := constraint.CheckString(tc.col, tc.in)
		if tc.err != "" {
			require.Error(t, err, tc.in)
			assert.Equal(t, tc.err, err.Error())
			var fe *constraint.FieldError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tc.col.Name, fe.Column)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got)
	}
}

func TestCheckNumber(t *testing.T) {
	positive := constraint.Column{Name: "price", Kind: constraint.KindPositive}
	nonNeg := constraint.Column{Name: "sequence", Kind: constraint.KindNonNegative}

	assert.NoError(t, constraint.CheckNumber(positive, decimal.RequireFromString("0.01")))
	assert.EqualError(t, constraint.CheckNumber(positive, decimal.Zero), "Column 'price' must be a positive number (greater than 0).")
	assert.Error(t, constraint.CheckNumber(positive, -3))
	assert.NoError(t, constraint.CheckNumber(nonNeg, 0))
	assert.EqualError(t, constraint.CheckNumber(nonNeg, -1), "Column 'sequence' must be a non-negative number (greater than or equal to 0).")
}

func TestTruncateName(t *testing.T) {
	short := "check_products_name_not_empty"
	assert.Equal(t, short, constraint.TruncateName(short))

	long := "check_" + strings.Repeat("t", 40) + "_" + strings.Repeat("c", 40) + "_valid_format"
	got := constraint.TruncateName(long)
	assert.LessOrEqual(t, len(got), constraint.MaxNameLength)
	assert.True(t, strings.HasPrefix(got, "check_"))
	assert.True(t, strings.HasSuffix(got, "_valid_format"))

	// table gets half of the room, column the rest
	parts := strings.Split(got, "_")
	assert.Len(t, parts[1], 21)
	assert.Len(t, parts[2], 22)

	assert.Equal(t, strings.Repeat("x", 63), constraint.TruncateName(strings.Repeat("x", 80)))
}

func TestPlan(t *testing.T) {
	db := testutil.NewDB(t)
	checks, err := constraint.Plan(db, &model.Supplier{}, &model.PriceDetail{}, &model.Sku{})
	require.NoError(t, err)

	byName := map[string]string{}
	for _, c := range checks {
		byName[c.Name] = c.Expression
	}

	assert.Equal(t, "LENGTH(TRIM(name)) > 0", byName["check_suppliers_name_not_empty"])
	assert.Equal(t, "name ~ '^[A-Za-z][A-Za-z0-9_ -]*$'", byName["check_suppliers_name_valid_format"])
	assert.Equal(t, "email LIKE '%@%' AND email NOT LIKE '@%' AND email NOT LIKE '%@'", byName["check_suppliers_email_format"])
	assert.Equal(t, "contact ~ '^[0-9]+$'", byName["check_suppliers_contact_digits_only"])
	assert.Equal(t, "slug ~ '^[a-z0-9-]+$'", byName["check_suppliers_slug_format"])
	assert.Equal(t, "price > 0", byName["check_price_details_price_positive"])
	assert.Equal(t, "LENGTH(sku_number) = 10", byName["check_skus_sku_number_length"])
	assert.Equal(t, "sku_number ~ '^[0-9A-F]{10}$'", byName["check_skus_sku_number_format"])

	assert.NotContains(t, byName, "check_suppliers_company_type_not_empty")
	assert.NotContains(t, byName, "check_suppliers_address_not_empty")
	assert.NotContains(t, byName, "check_suppliers_sequence_non_negative")

	out := constraint.Format(checks)
	assert.Contains(t, out, "suppliers\n")
	assert.Contains(t, out, "  check_skus_sku_number_length: LENGTH(sku_number) = 10\n")
}

func TestSyncSkipsNonPostgres(t *testing.T) {
	db := testutil.NewDB(t)
	added, err := constraint.Sync(context.Background(), db, nil, model.All()...)
	require.NoError(t, err)
	assert.Empty(t, added)
}

func TestPluginCreate(t *testing.T) {
	db := testutil.NewDB(t, constraint.Plugin{})

	sup := &model.Supplier{
		Name:        "  Acme Supplies ",
		CompanyType: "pt",
		Contact:     "0812345678",
		Email:       " Sales@Acme.COM ",
	}
	require.NoError(t, db.Create(sup).Error)
	assert.Equal(t, "Acme Supplies", sup.Name)
	assert.Equal(t, "PT", sup.CompanyType)
	assert.Equal(t, "sales@acme.com", sup.Email)

	var stored model.Supplier
	require.NoError(t, db.First(&stored, sup.ID).Error)
	assert.Equal(t, "sales@acme.com", stored.Email)

	err := db.Create(&model.Supplier{Name: "Beta", CompanyType: "CV", Contact: "08abc", Email: "b@beta.com"}).Error
	var fe *constraint.FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "contact", fe.Column)
	assert.Equal(t, "Column 'contact' must contain only digits.", fe.Message)
}

func TestPluginRejectsNonPositivePrice(t *testing.T) {
	db := testutil.NewDB(t, constraint.Plugin{})

	err := db.Create(&model.PriceDetail{Price: decimal.Zero, MinimumQuantity: 1, SkuID: 1, PricelistID: 1}).Error
	var fe *constraint.FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "price", fe.Column)

	err = db.Create(&model.PriceDetail{Price: decimal.NewFromInt(10), MinimumQuantity: -2, SkuID: 1, PricelistID: 1}).Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "minimum_quantity", fe.Column)

	pd := &model.PriceDetail{Price: decimal.NewFromInt(10), SkuID: 1, PricelistID: 1}
	require.NoError(t, db.Create(pd).Error)
}

func TestPluginBatchCreate(t *testing.T) {
	db := testutil.NewDB(t, constraint.Plugin{})

	types := []model.CategoryType{{Name: "Goods"}, {Name: "9 Lives"}}
	err := db.Create(&types).Error
	var fe *constraint.FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "Column 'name' must start with a letter.", fe.Message)

	var count int64
	db.Model(&model.CategoryType{}).Count(&count)
	assert.Zero(t, count)
}

func TestPluginUpdate(t *testing.T) {
	db := testutil.NewDB(t, constraint.Plugin{})
	sup := &model.Supplier{Name: "Acme", CompanyType: "PT", Contact: "0812345678", Email: "a@acme.com"}
	require.NoError(t, db.Create(sup).Error)

	// map updates are normalized in place
	require.NoError(t, db.Model(sup).Updates(map[string]interface{}{"email": " New@Acme.com"}).Error)
	var stored model.Supplier
	require.NoError(t, db.First(&stored, sup.ID).Error)
	assert.Equal(t, "new@acme.com", stored.Email)

	err := db.Model(sup).Update("contact", "phone").Error
	var fe *constraint.FieldError
	require.ErrorAs(t, err, &fe)

	// struct updates skip zero fields
	require.NoError(t, db.Model(sup).Updates(model.Supplier{Name: "Acme Two"}).Error)

	// Save writes every column, so an emptied field is rejected
	stored.Contact = "  "
	err = db.Save(&stored).Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "Column 'contact' cannot be empty.", fe.Message)
}
