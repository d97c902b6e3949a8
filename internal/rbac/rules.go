package rbac

// Simple default policy. Expand as needed.
var RolePermissions = map[string][]string{
	"student": {
		"test:view",
		"answer:submit",
		"grade:view-own",
	},
	"professor": {
		"test:create",
		"test:view",
		"answer:submit",
		"grade:manual",
		"grade:view-all",
		"report:view",
	},
	"admin": {
		"*", // everything
	},
}
