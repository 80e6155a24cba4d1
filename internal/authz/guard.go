// Package authz holds the single capability check evaluated by every
// service operation, replacing per-endpoint role branching.
package authz

import "foodorder/internal/domain"

// Guard decides whether an identity may act on a resource. It is a stateless
// value constructed once at process start and shared by the services.
type Guard struct{}

func New() *Guard {
	return &Guard{}
}

// CanAccessCart gates reads and mutations of a cart. Members act only on
// their own cart; managers additionally on any cart whose scope key matches
// their own scope; admins are unrestricted.
func (g *Guard) CanAccessCart(id domain.Identity, ownerID, scopeKey string) error {
	if id.UserID == "" {
		return domain.ErrUnauthenticated
	}
	switch id.Role {
	case domain.RoleAdmin:
		return nil
	case domain.RoleManager:
		if id.UserID == ownerID || id.Scope == scopeKey {
			return nil
		}
	default:
		if id.UserID == ownerID {
			return nil
		}
	}
	return domain.ErrForbidden
}

// CanAccessOrder gates order reads and status changes. Orders are strictly
// owner-scoped; only admins cross that line.
func (g *Guard) CanAccessOrder(id domain.Identity, ownerID string) error {
	if id.UserID == "" {
		return domain.ErrUnauthenticated
	}
	if id.Role == domain.RoleAdmin || id.UserID == ownerID {
		return nil
	}
	return domain.ErrForbidden
}

// CanViewPayment follows the parent order's ownership rule.
func (g *Guard) CanViewPayment(id domain.Identity, orderOwnerID string) error {
	return g.CanAccessOrder(id, orderOwnerID)
}

// CanAdministerPayments gates direct payment mutation (status overrides,
// deletion), which is an administrative action.
func (g *Guard) CanAdministerPayments(id domain.Identity) error {
	if id.UserID == "" {
		return domain.ErrUnauthenticated
	}
	if id.Role == domain.RoleAdmin {
		return nil
	}
	return domain.ErrForbidden
}

// CanManageUser gates reads and changes of an account. Owner or admin only;
// manager scope grants nothing here.
func (g *Guard) CanManageUser(id domain.Identity, targetID string) error {
	if id.UserID == "" {
		return domain.ErrUnauthenticated
	}
	if id.Role == domain.RoleAdmin || id.UserID == targetID {
		return nil
	}
	return domain.ErrForbidden
}

// CanManageCatalog gates restaurant and menu item mutation.
func (g *Guard) CanManageCatalog(id domain.Identity) error {
	if id.UserID == "" {
		return domain.ErrUnauthenticated
	}
	if id.Role == domain.RoleAdmin || id.Role == domain.RoleManager {
		return nil
	}
	return domain.ErrForbidden
}
