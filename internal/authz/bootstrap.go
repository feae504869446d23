package authz

import "fmt"

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role      string
	Inherits  []string
	Policies  []Policy
	Immutable bool
}

// BuiltinRoleSeeds 系统预置角色矩阵
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: "readonly_auditor",
			Policies: []Policy{
				{Object: "/admin/*", Action: "GET"},
			},
			Immutable: true,
		},
		{
			Role:     "marketing",
			Inherits: []string{"readonly_auditor"},
			Policies: []Policy{
				{Object: "/admin/promotions", Action: "*"},
				{Object: "/admin/promotions/:id", Action: "*"},
				{Object: "/admin/contests", Action: "*"},
				{Object: "/admin/contests/:id", Action: "*"},
				{Object: "/admin/contests/:id/sync", Action: "POST"},
				{Object: "/admin/photo-entries/:id/review", Action: "PATCH"},
				{Object: "/admin/products", Action: "*"},
				{Object: "/admin/products/:id", Action: "*"},
				{Object: "/admin/draws/simulate", Action: "POST"},
			},
			Immutable: true,
		},
		{
			Role:     "partners",
			Inherits: []string{"readonly_auditor"},
			Policies: []Policy{
				{Object: "/admin/vendors", Action: "*"},
				{Object: "/admin/vendors/:id", Action: "*"},
				{Object: "/admin/vendors/:id/summary", Action: "GET"},
				{Object: "/admin/commissions", Action: "*"},
				{Object: "/admin/commissions/:id/status", Action: "PATCH"},
			},
			Immutable: true,
		},
		{
			Role:     "support",
			Inherits: []string{"readonly_auditor"},
			Policies: []Policy{
				{Object: "/admin/entrants", Action: "GET"},
				{Object: "/admin/entrants/:id", Action: "*"},
				{Object: "/admin/entrants/batch", Action: "PATCH"},
				{Object: "/admin/invoices", Action: "GET"},
				{Object: "/admin/invoices/:id", Action: "GET"},
				{Object: "/admin/invoices/:id/status", Action: "PATCH"},
			},
			Immutable: true,
		},
	}
}

// BootstrapBuiltinRoles 初始化预置角色与默认策略
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}

	for _, seed := range BuiltinRoleSeeds() {
		role, err := NormalizeRole(seed.Role)
		if err != nil {
			return err
		}

		exists, err := s.enforcer.HasNamedGroupingPolicy("g", role, roleAnchor)
		if err != nil {
			return fmt.Errorf("check builtin role failed: %w", err)
		}
		if !exists {
			if _, err := s.enforcer.AddNamedGroupingPolicy("g", role, roleAnchor); err != nil {
				return fmt.Errorf("create builtin role failed: %w", err)
			}
		}

		for _, parent := range seed.Inherits {
			parentRole, err := NormalizeRole(parent)
			if err != nil {
				return err
			}
			if _, err := s.enforcer.AddNamedGroupingPolicy("g", role, parentRole); err != nil {
				return fmt.Errorf("link role inheritance failed: %w", err)
			}
		}

		for _, policy := range seed.Policies {
			action := NormalizeAction(policy.Action)
			if action == "" {
				return fmt.Errorf("builtin policy action is required")
			}
			if _, err := s.enforcer.AddPolicy(role, NormalizeObject(policy.Object), action); err != nil {
				return fmt.Errorf("add builtin policy failed: %w", err)
			}
		}
	}
	return nil
}
