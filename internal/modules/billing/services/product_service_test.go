package services

import (
	"strings"
	"testing"

	"gorm.io/gorm"

	"github.com/voicebill/voice-billing-be/internal/modules/billing/models"
)

type fakeProductRepo struct {
	products map[uint]*models.Product
	nextID   uint
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[uint]*models.Product{}, nextID: 1}
}

func (f *fakeProductRepo) Create(p *models.Product) error {
	p.ID = f.nextID
	f.nextID++
	f.products[p.ID] = p
	return nil
}

func (f *fakeProductRepo) GetByID(id uint) (*models.Product, error) {
	if p, ok := f.products[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeProductRepo) GetByName(name string) (*models.Product, error) {
	for _, p := range f.products {
		if strings.EqualFold(p.Name, strings.TrimSpace(name)) {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeProductRepo) List() ([]models.Product, error)            { return nil, nil }
func (f *fakeProductRepo) ListForSnapshot() ([]models.Product, error) { return nil, nil }

func (f *fakeProductRepo) Update(p *models.Product) error {
	f.products[p.ID] = p
	return nil
}

func (f *fakeProductRepo) Delete(id uint) error {
	delete(f.products, id)
	return nil
}

func (f *fakeProductRepo) SetGlobalGST(gstPercent float64) (int64, error) {
	var updated int64
	for _, p := range f.products {
		if !p.GSTLocked {
			p.GSTPercent = gstPercent
			updated++
		}
	}
	return updated, nil
}

func (f *fakeProductRepo) Count() (int64, error) { return int64(len(f.products)), nil }

func gst(v float64) *float64 { return &v }

func TestCreateProductUpsertsByName(t *testing.T) {
	repo := newFakeProductRepo()
	svc := NewProductService(repo)

	first, err := svc.CreateProduct(&models.CreateProductRequest{Name: "Rice", Price: 50})
	if err != nil {
		t.Fatalf("CreateProduct() error = %v", err)
	}

	// Re-dictating the same product updates the price instead of duplicating
	second, err := svc.CreateProduct(&models.CreateProductRequest{Name: "rice", Price: 55})
	if err != nil {
		t.Fatalf("CreateProduct() error = %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("upsert created new product %d, want existing %d", second.ID, first.ID)
	}
	if second.Price != 55 {
		t.Errorf("price = %g, want 55", second.Price)
	}
	if len(repo.products) != 1 {
		t.Errorf("products stored = %d, want 1", len(repo.products))
	}
}

func TestCreateProductValidation(t *testing.T) {
	svc := NewProductService(newFakeProductRepo())

	tests := []struct {
		name string
		req  models.CreateProductRequest
	}{
		{"empty name", models.CreateProductRequest{Price: 10}},
		{"negative price", models.CreateProductRequest{Name: "Rice", Price: -1}},
		{"gst over 100", models.CreateProductRequest{Name: "Rice", Price: 10, GSTPercent: gst(120)}},
		{"negative gst", models.CreateProductRequest{Name: "Rice", Price: 10, GSTPercent: gst(-5)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CreateProduct(&tt.req); err == nil {
				t.Error("CreateProduct() error = nil, want validation error")
			}
		})
	}
}

func TestSetGlobalGSTSkipsLockedProducts(t *testing.T) {
	repo := newFakeProductRepo()
	svc := NewProductService(repo)

	// Rice takes the global rate; soap carries an explicit per-product one
	if _, err := svc.CreateProduct(&models.CreateProductRequest{Name: "Rice", Price: 50}); err != nil {
		t.Fatalf("CreateProduct() error = %v", err)
	}
	if _, err := svc.CreateProduct(&models.CreateProductRequest{Name: "Soap", Price: 30, GSTPercent: gst(18)}); err != nil {
		t.Fatalf("CreateProduct() error = %v", err)
	}

	updated, err := svc.SetGlobalGST(5)
	if err != nil {
		t.Fatalf("SetGlobalGST() error = %v", err)
	}
	if updated != 1 {
		t.Errorf("SetGlobalGST() updated = %d, want 1", updated)
	}

	rice, _ := repo.GetByName("Rice")
	if rice.GSTPercent != 5 {
		t.Errorf("rice gst = %g, want global 5", rice.GSTPercent)
	}
	soap, _ := repo.GetByName("Soap")
	if soap.GSTPercent != 18 {
		t.Errorf("soap gst = %g, want locked 18", soap.GSTPercent)
	}
}

func TestSetGlobalGSTValidatesRange(t *testing.T) {
	svc := NewProductService(newFakeProductRepo())

	for _, bad := range []float64{-1, 101} {
		if _, err := svc.SetGlobalGST(bad); err == nil {
			t.Errorf("SetGlobalGST(%g) error = nil, want range error", bad)
		}
	}
}

func TestUpdateProductPartial(t *testing.T) {
	repo := newFakeProductRepo()
	svc := NewProductService(repo)

	created, err := svc.CreateProduct(&models.CreateProductRequest{Name: "Rice", Price: 50})
	if err != nil {
		t.Fatalf("CreateProduct() error = %v", err)
	}

	price := 60.0
	updated, err := svc.UpdateProduct(created.ID, &models.UpdateProductRequest{Price: &price})
	if err != nil {
		t.Fatalf("UpdateProduct() error = %v", err)
	}
	if updated.Price != 60 {
		t.Errorf("price = %g, want 60", updated.Price)
	}
	if updated.Name != "Rice" {
		t.Errorf("name = %q, untouched fields must keep their value", updated.Name)
	}
}

func TestUpdateProductNotFound(t *testing.T) {
	svc := NewProductService(newFakeProductRepo())

	price := 60.0
	if _, err := svc.UpdateProduct(42, &models.UpdateProductRequest{Price: &price}); err == nil {
		t.Error("UpdateProduct() error = nil, want not found")
	}
}
