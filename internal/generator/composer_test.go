package generator_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrausse/billable/internal/generator"
	"github.com/mkrausse/billable/internal/invoice"
	"github.com/mkrausse/billable/internal/project"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}

	return d
}

func completedProject(name, amount string) *project.Project {
	return &project.Project{
		ID:          uuid.New(),
		Name:        name,
		Status:      project.StatusCompleted,
		TotalAmount: dec(amount),
	}
}

func TestCompose(t *testing.T) {
	type args struct {
		projects []*project.Project
		manual   []generator.ManualItem
		settings generator.Settings
	}

	type testCase struct {
		name         string
		args         args
		wantSubtotal string
		wantTax      string
		wantTotal    string
		wantItems    int
		wantErr      error
	}

	tests := []testCase{
		{
			name: "SingleProjectWithTaxAndDiscount",
			args: args{
				projects: []*project.Project{completedProject("Website redesign", "1000")},
				settings: generator.Settings{TaxRate: dec("10"), Discount: dec("50")},
			},
			wantSubtotal: "1000",
			wantTax:      "100",
			wantTotal:    "1050",
			wantItems:    1,
		},
		{
			name: "ProjectPlusManualItem",
			args: args{
				projects: []*project.Project{completedProject("P", "1000")},
				manual: []generator.ManualItem{
					{Description: "Rush fee", Amount: dec("200")},
				},
				settings: generator.Settings{TaxRate: decimal.Zero, Discount: decimal.Zero},
			},
			wantSubtotal: "1200",
			wantTax:      "0",
			wantTotal:    "1200",
			wantItems:    2,
		},
		{
			name: "ManualOnly",
			args: args{
				manual: []generator.ManualItem{
					{Description: "Consulting", Amount: dec("500.50")},
					{Description: "Travel", Amount: dec("99.50")},
				},
				settings: generator.Settings{TaxRate: dec("20")},
			},
			wantSubtotal: "600",
			wantTax:      "120",
			wantTotal:    "720",
			wantItems:    2,
		},
		{
			name: "FractionalTaxRounding",
			args: args{
				manual: []generator.ManualItem{
					{Description: "Sprint", Amount: dec("333.33")},
				},
				settings: generator.Settings{TaxRate: dec("7.5")},
			},
			wantSubtotal: "333.33",
			wantTax:      "25",
			wantTotal:    "358.33",
			wantItems:    1,
		},
		{
			name:    "NoLineItems",
			args:    args{settings: generator.Settings{}},
			wantErr: generator.ErrNoLineItems,
		},
		{
			name: "DiscountSwallowsTotal",
			args: args{
				manual:   []generator.ManualItem{{Description: "Small", Amount: dec("10")}},
				settings: generator.Settings{Discount: dec("10")},
			},
			wantErr: generator.ErrNonPositiveTotal,
		},
		{
			name: "NegativeManualAmount",
			args: args{
				manual:   []generator.ManualItem{{Description: "Oops", Amount: dec("-5")}},
				settings: generator.Settings{},
			},
			wantErr: generator.ErrNegativeAmount,
		},
		{
			name: "NegativeTaxRate",
			args: args{
				manual:   []generator.ManualItem{{Description: "X", Amount: dec("10")}},
				settings: generator.Settings{TaxRate: dec("-1")},
			},
			wantErr: generator.ErrInvalidTaxRate,
		},
		{
			name: "TaxRateOverOneHundred",
			args: args{
				manual:   []generator.ManualItem{{Description: "X", Amount: dec("10")}},
				settings: generator.Settings{TaxRate: dec("101")},
			},
			wantErr: generator.ErrInvalidTaxRate,
		},
		{
			name: "NegativeDiscount",
			args: args{
				manual:   []generator.ManualItem{{Description: "X", Amount: dec("10")}},
				settings: generator.Settings{Discount: dec("-1")},
			},
			wantErr: generator.ErrNegativeDiscount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			comp, err := generator.Compose(tt.args.projects, tt.args.manual, tt.args.settings)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, generator.ErrValidation)
				assert.Nil(t, comp)

				return
			}

			require.NoError(t, err)
			require.Len(t, comp.Items, tt.wantItems)

			assert.True(t, comp.Subtotal.Equal(dec(tt.wantSubtotal)), "subtotal = %s", comp.Subtotal)
			assert.True(t, comp.TaxAmount.Equal(dec(tt.wantTax)), "tax = %s", comp.TaxAmount)
			assert.True(t, comp.Total.Equal(dec(tt.wantTotal)), "total = %s", comp.Total)

			// total == subtotal + tax - discount always holds.
			recomputed := comp.Subtotal.Add(comp.TaxAmount).Sub(comp.Discount)
			assert.True(t, comp.Total.Equal(recomputed.Round(2)))
		})
	}
}

func TestCompose_ItemOrder(t *testing.T) {
	p1 := completedProject("First project", "100")
	p2 := completedProject("Second project", "200")

	comp, err := generator.Compose(
		[]*project.Project{p1, p2},
		[]generator.ManualItem{
			{Description: "Rush fee", Amount: dec("50")},
		},
		generator.Settings{},
	)
	require.NoError(t, err)
	require.Len(t, comp.Items, 3)

	assert.Equal(t, invoice.ItemProject, comp.Items[0].Kind)
	assert.Equal(t, "First project", comp.Items[0].Description)
	assert.Equal(t, invoice.ItemProject, comp.Items[1].Kind)
	assert.Equal(t, "Second project", comp.Items[1].Description)
	assert.Equal(t, invoice.ItemManual, comp.Items[2].Kind)
	assert.Equal(t, "Rush fee", comp.Items[2].Description)

	for i, item := range comp.Items {
		assert.Equal(t, i, item.Position)
	}

	assert.Equal(t, &p1.ID, comp.Items[0].ProjectID)
	assert.Nil(t, comp.Items[2].ProjectID)
}

func TestCompose_ZeroAmountProject(t *testing.T) {
	p := completedProject("Unpriced project", "0")

	comp, err := generator.Compose(
		[]*project.Project{p},
		[]generator.ManualItem{{Description: "Fee", Amount: dec("100")}},
		generator.Settings{},
	)
	require.NoError(t, err)

	assert.True(t, comp.Items[0].Amount.IsZero())
	assert.True(t, comp.Total.Equal(dec("100")))
}
