package models

import "testing"

func TestPermissionSetAllows(t *testing.T) {
	perms := PermissionSet{
		"orders": {"create": true, "get": false},
	}

	if !perms.Allows("orders", "create") {
		t.Error("expected orders.create to be allowed")
	}
	if perms.Allows("orders", "get") {
		t.Error("expected explicit false to deny orders.get")
	}
	if perms.Allows("orders", "cancel") {
		t.Error("expected missing action to deny orders.cancel")
	}
	if perms.Allows("payments", "approve") {
		t.Error("expected missing domain to deny payments.approve")
	}

	var empty PermissionSet
	if empty.Allows("orders", "create") {
		t.Error("expected nil set to deny everything")
	}
}

func TestPermissionSetValidate(t *testing.T) {
	valid := PermissionSet{
		"orders":   {"create": true},
		"webhooks": {"create": true, "get_list": true},
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("unexpected error for valid set: %v", err)
	}

	unknownDomain := PermissionSet{"refunds": {"create": true}}
	if err := unknownDomain.Validate(); err == nil {
		t.Error("expected error for unknown domain")
	}

	unknownAction := PermissionSet{"orders": {"delete": true}}
	if err := unknownAction.Validate(); err == nil {
		t.Error("expected error for unknown action")
	}
}

func TestKnownPermission(t *testing.T) {
	if !KnownPermission("payments", "approve") {
		t.Error("expected payments.approve in the catalog")
	}
	if KnownPermission("payments", "create") {
		t.Error("did not expect payments.create in the catalog")
	}
	if KnownPermission("shipping", "get") {
		t.Error("did not expect shipping domain in the catalog")
	}
}

func TestAPIKeyIsActive(t *testing.T) {
	cases := []struct {
		status KeyStatus
		want   bool
	}{
		{KeyStatusActive, true},
		{KeyStatusInactive, false},
		{KeyStatusRevoked, false},
	}

	for _, tc := range cases {
		key := &APIKey{Status: tc.status}
		if key.IsActive() != tc.want {
			t.Errorf("IsActive() for %s = %v, want %v", tc.status, key.IsActive(), tc.want)
		}
	}
}
