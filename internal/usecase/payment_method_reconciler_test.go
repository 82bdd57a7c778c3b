package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"billing_gateway/internal/domain/entities"
	"billing_gateway/internal/usecase/interfaces"

	"github.com/google/uuid"
	"go.uber.org/mock/gomock"
)

func TestMergeGatewayMethods(t *testing.T) {
	now := time.Date(2025, 5, 2, 9, 0, 0, 0, time.UTC)
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	local := []entities.PaymentMethod{
		{BillingMethodID: a, GatewayMethodToken: "pm_a", IsDefault: true},
		{BillingMethodID: b, GatewayMethodToken: "pm_b"},
	}

	t.Run("match, append and soft-remove", func(t *testing.T) {
		remote := []entities.GatewayMethod{
			{Token: "pm_b", IsDefault: true, Properties: []entities.Property{{Key: "brand", Value: "visa"}}},
			{Token: "pm_c", BillingMethodID: c},
		}
		out, err := mergeGatewayMethods(local, remote, true, now)
		if err != nil {
			t.Fatalf("merge: %v", err)
		}
		if len(out) != 3 {
			t.Fatalf("len=%d, want 3", len(out))
		}
		if !out[0].Removed || out[0].RemovedAt == nil || out[0].IsDefault {
			t.Fatalf("pm_a should be soft-removed: %+v", out[0])
		}
		if !out[1].IsDefault || out[1].Properties[0].Value != "visa" || !out[1].LastSyncedAt.Equal(now) {
			t.Fatalf("pm_b not refreshed: %+v", out[1])
		}
		if out[2].BillingMethodID != c || !out[2].NewlySynced {
			t.Fatalf("pm_c not appended: %+v", out[2])
		}
		if local[0].Removed {
			t.Fatalf("input slice was modified")
		}
	})

	t.Run("token change for known id", func(t *testing.T) {
		_, err := mergeGatewayMethods(local, []entities.GatewayMethod{{Token: "pm_other", BillingMethodID: a}}, true, now)
		if !errors.Is(err, ErrMethodIntegrity) {
			t.Fatalf("expected ErrMethodIntegrity, got %v", err)
		}
	})

	t.Run("local default kept without tracking", func(t *testing.T) {
		remote := []entities.GatewayMethod{{Token: "pm_a"}, {Token: "pm_b", IsDefault: true}}
		out, err := mergeGatewayMethods(local, remote, false, now)
		if err != nil {
			t.Fatalf("merge: %v", err)
		}
		if !out[0].IsDefault || out[1].IsDefault {
			t.Fatalf("defaults changed: %+v", out)
		}
	})

	t.Run("removed method comes back", func(t *testing.T) {
		removedAt := now.Add(-time.Hour)
		withRemoved := []entities.PaymentMethod{{BillingMethodID: a, GatewayMethodToken: "pm_a", Removed: true, RemovedAt: &removedAt}}
		out, err := mergeGatewayMethods(withRemoved, []entities.GatewayMethod{{Token: "pm_a"}}, true, now)
		if err != nil {
			t.Fatalf("merge: %v", err)
		}
		if out[0].Removed || out[0].RemovedAt != nil || out[0].BillingMethodID != a {
			t.Fatalf("expected reactivated method, got %+v", out[0])
		}
	})
}

// racingMethodRepo lets another writer bump the set right after each read.
type racingMethodRepo struct {
	interfaces.IPaymentMethodRepository
}

func (r *racingMethodRepo) GetByAccountID(ctx context.Context, accountID uuid.UUID) (entities.PaymentMethodSet, error) {
	set, err := r.IPaymentMethodRepository.GetByAccountID(ctx, accountID)
	if err != nil {
		return set, err
	}
	if _, err := r.IPaymentMethodRepository.Replace(ctx, set, set.Version); err != nil {
		return set, err
	}
	return set, nil
}

func newReconcilerFixture(t *testing.T) (*dispatcherFixture, *PaymentMethodReconciler) {
	t.Helper()
	f := newDispatcherFixture(t, DispatcherConfig{})
	r := NewPaymentMethodReconciler(f.methods, f.d, nil)
	r.now = func() time.Time { return f.clock }
	return f, r
}

func TestPaymentMethodReconciler_ListMethods(t *testing.T) {
	ctx := context.Background()

	t.Run("cached", func(t *testing.T) {
		f, r := newReconcilerFixture(t)
		methods, err := r.ListMethods(ctx, f.accountID, false)
		if err != nil || len(methods) != 1 || methods[0].BillingMethodID != f.methodID {
			t.Fatalf("unexpected %v %+v", err, methods)
		}
	})

	t.Run("refresh from gateway", func(t *testing.T) {
		f, r := newReconcilerFixture(t)
		f.adapter.EXPECT().Capabilities().Return(allCapabilities)
		f.adapter.EXPECT().ListMethods(gomock.Any(), "cus_1").Return([]entities.GatewayMethod{
			{Token: "pm_1", IsDefault: true, Properties: []entities.Property{{Key: "last4", Value: "4242"}}},
			{Token: "pm_2"},
		}, nil)

		methods, err := r.ListMethods(ctx, f.accountID, true)
		if err != nil {
			t.Fatalf("refresh: %v", err)
		}
		if len(methods) != 2 || methods[0].BillingMethodID != f.methodID || !methods[1].NewlySynced {
			t.Fatalf("unexpected methods %+v", methods)
		}
		set, _ := f.methods.GetByAccountID(ctx, f.accountID)
		if set.Version != 2 {
			t.Fatalf("version=%d, want 2", set.Version)
		}
	})

	t.Run("refresh drops a method the gateway no longer has", func(t *testing.T) {
		f, r := newReconcilerFixture(t)
		f.adapter.EXPECT().Capabilities().Return(allCapabilities)
		f.adapter.EXPECT().ListMethods(gomock.Any(), "cus_1").Return([]entities.GatewayMethod{
			{Token: "pm_2", IsDefault: true},
		}, nil)

		if _, err := r.ListMethods(ctx, f.accountID, true); err != nil {
			t.Fatalf("refresh: %v", err)
		}
		methods, err := r.ListMethods(ctx, f.accountID, false)
		if err != nil {
			t.Fatalf("cached list: %v", err)
		}
		if len(methods) != 1 || methods[0].GatewayMethodToken != "pm_2" || methods[0].BillingMethodID == f.methodID {
			t.Fatalf("unexpected methods %+v", methods)
		}
		set, _ := f.methods.GetByAccountID(ctx, f.accountID)
		if idx := set.Find(f.methodID); idx < 0 || !set.Methods[idx].Removed {
			t.Fatalf("pm_1 should stay cached as removed: %+v", set)
		}
	})

	t.Run("gateway cannot list", func(t *testing.T) {
		f, r := newReconcilerFixture(t)
		f.adapter.EXPECT().Capabilities().Return(entities.GatewayCapabilities{})
		_, err := r.ListMethods(ctx, f.accountID, true)
		if !errors.Is(err, ErrCapabilityUnsupported) {
			t.Fatalf("expected ErrCapabilityUnsupported, got %v", err)
		}
	})

	t.Run("integrity violation leaves cache untouched", func(t *testing.T) {
		f, r := newReconcilerFixture(t)
		f.adapter.EXPECT().Capabilities().Return(allCapabilities)
		f.adapter.EXPECT().ListMethods(gomock.Any(), "cus_1").Return([]entities.GatewayMethod{
			{Token: "pm_swapped", BillingMethodID: f.methodID},
		}, nil)
		_, err := r.ListMethods(ctx, f.accountID, true)
		if !errors.Is(err, ErrMethodIntegrity) {
			t.Fatalf("expected ErrMethodIntegrity, got %v", err)
		}
		set, _ := f.methods.GetByAccountID(ctx, f.accountID)
		if set.Version != 1 || set.Methods[0].GatewayMethodToken != "pm_1" {
			t.Fatalf("cache changed: %+v", set)
		}
	})
}

func TestPaymentMethodReconciler_ResetMethods(t *testing.T) {
	ctx := context.Background()

	invalid := map[string][]entities.PaymentMethod{
		"empty token":     {{GatewayMethodToken: " "}},
		"duplicate token": {{GatewayMethodToken: "pm_x"}, {GatewayMethodToken: "pm_x"}},
		"two defaults":    {{GatewayMethodToken: "pm_x", IsDefault: true}, {GatewayMethodToken: "pm_y", IsDefault: true}},
	}
	for name, methods := range invalid {
		t.Run(name, func(t *testing.T) {
			f, r := newReconcilerFixture(t)
			_, err := r.ResetMethods(ctx, f.accountID, methods)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			set, _ := f.methods.GetByAccountID(ctx, f.accountID)
			if set.Version != 1 || len(set.Methods) != 1 {
				t.Fatalf("set changed on rejected reset: %+v", set)
			}
		})
	}

	t.Run("keeps ids of known tokens", func(t *testing.T) {
		f, r := newReconcilerFixture(t)
		methods, err := r.ResetMethods(ctx, f.accountID, []entities.PaymentMethod{
			{GatewayMethodToken: "pm_9", IsDefault: true},
			{GatewayMethodToken: "pm_1"},
		})
		if err != nil {
			t.Fatalf("reset: %v", err)
		}
		if len(methods) != 2 || methods[1].BillingMethodID != f.methodID || methods[0].BillingMethodID == uuid.Nil {
			t.Fatalf("unexpected methods %+v", methods)
		}
		if !methods[0].IsDefault || methods[1].IsDefault {
			t.Fatalf("unexpected defaults %+v", methods)
		}
	})

	t.Run("concurrent writer wins", func(t *testing.T) {
		f, _ := newReconcilerFixture(t)
		racing := &racingMethodRepo{IPaymentMethodRepository: f.methods}
		r := NewPaymentMethodReconciler(racing, f.d, nil)

		_, err := r.ResetMethods(ctx, f.accountID, []entities.PaymentMethod{{GatewayMethodToken: "pm_9", IsDefault: true}})
		if !errors.Is(err, interfaces.ErrVersionConflict) {
			t.Fatalf("expected ErrVersionConflict, got %v", err)
		}
		set, _ := f.methods.GetByAccountID(ctx, f.accountID)
		if set.Version != 2 || len(set.Methods) != 1 || set.Methods[0].GatewayMethodToken != "pm_1" {
			t.Fatalf("reset should not have been applied: %+v", set)
		}
	})

	t.Run("empty list clears the cache", func(t *testing.T) {
		f, r := newReconcilerFixture(t)
		methods, err := r.ResetMethods(ctx, f.accountID, nil)
		if err != nil || len(methods) != 0 {
			t.Fatalf("unexpected %v %+v", err, methods)
		}
	})
}

func TestPaymentMethodReconciler_AddMethod(t *testing.T) {
	ctx := context.Background()

	t.Run("missing token", func(t *testing.T) {
		f, r := newReconcilerFixture(t)
		_, err := r.AddMethod(ctx, f.accountID, entities.NewPaymentMethod{BillingMethodID: uuid.New()})
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("missing billing method id", func(t *testing.T) {
		f, r := newReconcilerFixture(t)
		_, err := r.AddMethod(ctx, f.accountID, entities.NewPaymentMethod{SourceToken: "tok_visa"})
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("billing method id already cached", func(t *testing.T) {
		f, r := newReconcilerFixture(t)
		_, err := r.AddMethod(ctx, f.accountID, entities.NewPaymentMethod{BillingMethodID: f.methodID, SourceToken: "tok_visa"})
		if !errors.Is(err, ErrMethodAlreadyExists) || !errors.Is(err, ErrValidation) {
			t.Fatalf("expected ErrMethodAlreadyExists, got %v", err)
		}
	})

	t.Run("gateway token already cached under another id", func(t *testing.T) {
		f, r := newReconcilerFixture(t)
		f.adapter.EXPECT().AddMethod(gomock.Any(), gomock.Any()).Return(entities.GatewayMethod{Token: "pm_1"}, nil)
		_, err := r.AddMethod(ctx, f.accountID, entities.NewPaymentMethod{BillingMethodID: uuid.New(), SourceToken: "tok_same_card"})
		if !errors.Is(err, ErrMethodAlreadyExists) {
			t.Fatalf("expected ErrMethodAlreadyExists, got %v", err)
		}
	})

	t.Run("attached as default", func(t *testing.T) {
		f, r := newReconcilerFixture(t)
		f.adapter.EXPECT().AddMethod(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, req entities.AddMethodRequest) (entities.GatewayMethod, error) {
				if req.CustomerRef != "cus_1" || req.SourceToken != "tok_visa" || !req.SetDefault {
					t.Errorf("unexpected add request %+v", req)
				}
				return entities.GatewayMethod{
					Token:           "pm_new",
					BillingMethodID: req.BillingMethodID,
					Properties:      []entities.Property{{Key: "brand", Value: "visa"}},
				}, nil
			})

		newID := uuid.New()
		added, err := r.AddMethod(ctx, f.accountID, entities.NewPaymentMethod{BillingMethodID: newID, SourceToken: " tok_visa ", SetDefault: true})
		if err != nil {
			t.Fatalf("add: %v", err)
		}
		if !added.IsDefault || added.GatewayMethodToken != "pm_new" || added.BillingMethodID != newID {
			t.Fatalf("unexpected method %+v", added)
		}
		methods, _ := r.ListMethods(ctx, f.accountID, false)
		if len(methods) != 2 || methods[0].IsDefault {
			t.Fatalf("previous default not cleared: %+v", methods)
		}
	})

	t.Run("gateway rejects card", func(t *testing.T) {
		f, r := newReconcilerFixture(t)
		f.adapter.EXPECT().AddMethod(gomock.Any(), gomock.Any()).Return(entities.GatewayMethod{},
			&entities.GatewayError{Code: entities.GatewayErrorInvalidCard, HTTPStatus: 402})
		_, err := r.AddMethod(ctx, f.accountID, entities.NewPaymentMethod{BillingMethodID: uuid.New(), SourceToken: "tok_bad"})
		if !errors.Is(err, ErrPermanent) {
			t.Fatalf("expected permanent error, got %v", err)
		}
	})
}

func TestPaymentMethodReconciler_DeleteMethod(t *testing.T) {
	ctx := context.Background()

	t.Run("soft-removes after gateway detach", func(t *testing.T) {
		f, r := newReconcilerFixture(t)
		f.adapter.EXPECT().DeleteMethod(gomock.Any(), "cus_1", "pm_1").Return(nil)

		if err := r.DeleteMethod(ctx, f.accountID, f.methodID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		set, _ := f.methods.GetByAccountID(ctx, f.accountID)
		if !set.Methods[0].Removed || set.Methods[0].RemovedAt == nil || set.Methods[0].IsDefault {
			t.Fatalf("method not soft-removed: %+v", set.Methods[0])
		}
		if err := r.DeleteMethod(ctx, f.accountID, f.methodID); !errors.Is(err, ErrMethodNotFound) {
			t.Fatalf("second delete: expected ErrMethodNotFound, got %v", err)
		}
	})

	t.Run("gateway failure keeps the method", func(t *testing.T) {
		f, r := newReconcilerFixture(t)
		f.adapter.EXPECT().DeleteMethod(gomock.Any(), "cus_1", "pm_1").Return(errors.New("i/o timeout"))
		if err := r.DeleteMethod(ctx, f.accountID, f.methodID); !errors.Is(err, ErrInDoubt) {
			t.Fatalf("expected in-doubt error, got %v", err)
		}
		methods, _ := r.ListMethods(ctx, f.accountID, false)
		if len(methods) != 1 {
			t.Fatalf("method removed despite gateway failure")
		}
	})
}

func TestPaymentMethodReconciler_SetDefaultMethod(t *testing.T) {
	ctx := context.Background()
	setup := func(t *testing.T) (*dispatcherFixture, *PaymentMethodReconciler, uuid.UUID) {
		f, r := newReconcilerFixture(t)
		methods, err := r.ResetMethods(ctx, f.accountID, []entities.PaymentMethod{
			{BillingMethodID: f.methodID, GatewayMethodToken: "pm_1", IsDefault: true},
			{GatewayMethodToken: "pm_2"},
		})
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
		return f, r, methods[1].BillingMethodID
	}

	t.Run("gateway sets default", func(t *testing.T) {
		f, r, second := setup(t)
		f.adapter.EXPECT().Capabilities().Return(allCapabilities)
		f.adapter.EXPECT().SetDefaultMethod(gomock.Any(), "cus_1", "pm_2").Return(nil)

		m, err := r.SetDefaultMethod(ctx, f.accountID, second)
		if err != nil || !m.IsDefault {
			t.Fatalf("unexpected %v %+v", err, m)
		}
		methods, _ := r.ListMethods(ctx, f.accountID, false)
		if methods[0].IsDefault || !methods[1].IsDefault {
			t.Fatalf("defaults not moved: %+v", methods)
		}
	})

	t.Run("tracking gateway without setter", func(t *testing.T) {
		f, r, second := setup(t)
		f.adapter.EXPECT().Capabilities().Return(entities.GatewayCapabilities{DefaultTracking: true})
		_, err := r.SetDefaultMethod(ctx, f.accountID, second)
		if !errors.Is(err, ErrCapabilityUnsupported) {
			t.Fatalf("expected ErrCapabilityUnsupported, got %v", err)
		}
	})

	t.Run("local only", func(t *testing.T) {
		f, r, second := setup(t)
		f.adapter.EXPECT().Capabilities().Return(entities.GatewayCapabilities{})
		m, err := r.SetDefaultMethod(ctx, f.accountID, second)
		if err != nil || !m.IsDefault {
			t.Fatalf("unexpected %v %+v", err, m)
		}
	})
}

func TestPaymentMethodReconciler_GetMethodDetail(t *testing.T) {
	ctx := context.Background()

	t.Run("refresh updates properties", func(t *testing.T) {
		f, r := newReconcilerFixture(t)
		f.adapter.EXPECT().Capabilities().Return(allCapabilities)
		f.adapter.EXPECT().GetMethod(gomock.Any(), "cus_1", "pm_1").Return(entities.GatewayMethod{
			Token:      "pm_1",
			IsDefault:  true,
			Properties: []entities.Property{{Key: "exp_year", Value: "2030"}},
		}, nil)

		m, err := r.GetMethodDetail(ctx, f.accountID, f.methodID, true)
		if err != nil || len(m.Properties) != 1 || m.Properties[0].Value != "2030" {
			t.Fatalf("unexpected %v %+v", err, m)
		}
	})

	t.Run("gateway returns another token", func(t *testing.T) {
		f, r := newReconcilerFixture(t)
		f.adapter.EXPECT().Capabilities().Return(allCapabilities)
		f.adapter.EXPECT().GetMethod(gomock.Any(), "cus_1", "pm_1").Return(entities.GatewayMethod{Token: "pm_other"}, nil)
		if _, err := r.GetMethodDetail(ctx, f.accountID, f.methodID, true); !errors.Is(err, ErrMethodIntegrity) {
			t.Fatalf("expected ErrMethodIntegrity, got %v", err)
		}
	})

	t.Run("unknown method", func(t *testing.T) {
		f, r := newReconcilerFixture(t)
		if _, err := r.GetMethodDetail(ctx, f.accountID, uuid.New(), false); !errors.Is(err, ErrMethodNotFound) {
			t.Fatalf("expected ErrMethodNotFound, got %v", err)
		}
	})
}
