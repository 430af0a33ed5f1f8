package enums

import "fmt"

// Permission gates a section of the back office.
type Permission string

const (
	PermissionDashboard Permission = "dashboard"
	PermissionOrders    Permission = "orders"
	PermissionProducts  Permission = "products"
	PermissionCustomers Permission = "customers"
	PermissionCoupons   Permission = "coupons"
	PermissionSMS       Permission = "sms"
)

var validPermissions = []Permission{
	PermissionDashboard,
	PermissionOrders,
	PermissionProducts,
	PermissionCustomers,
	PermissionCoupons,
	PermissionSMS,
}

// AllPermissions returns a copy of every known permission.
func AllPermissions() []Permission {
	out := make([]Permission, len(validPermissions))
	copy(out, validPermissions)
	return out
}

func (p Permission) String() string {
	return string(p)
}

func (p Permission) IsValid() bool {
	for _, candidate := range validPermissions {
		if candidate == p {
			return true
		}
	}
	return false
}

func ParsePermission(value string) (Permission, error) {
	for _, candidate := range validPermissions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid permission %q", value)
}
