package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/phpns/pkg/core"
)

func table(rules ...core.MappingRule) *core.RuleTable {
	return core.NewRuleTable(rules)
}

func TestResolve(t *testing.T) {
	rules := table(
		core.MappingRule{Prefix: "src/", Namespace: `App\`, Root: "/work/app"},
		core.MappingRule{Prefix: "src/Billing/", Namespace: `Acme\Billing\`, Root: "/work/app"},
		core.MappingRule{Prefix: "lib/", Namespace: `Legacy`, Root: "/work/app"},
		core.MappingRule{Prefix: "", Namespace: `Flat\`, Root: "/work/flat"},
	)

	tests := []struct {
		name    string
		file    string
		root    string
		want    string
		wantCls string
		matched bool
	}{
		{
			name: "directly under prefix", file: "/work/app/src/Foo.php", root: "/work/app",
			want: "App", wantCls: "Foo", matched: true,
		},
		{
			name: "nested", file: "/work/app/src/Models/User.php", root: "/work/app",
			want: `App\Models`, wantCls: "User", matched: true,
		},
		{
			name: "deeply nested", file: "/work/app/src/Http/Controllers/Api/UserController.php", root: "/work/app",
			want: `App\Http\Controllers\Api`, wantCls: "UserController", matched: true,
		},
		{
			name: "longer prefix wins", file: "/work/app/src/Billing/Invoices/Invoice.php", root: "/work/app",
			want: `Acme\Billing\Invoices`, wantCls: "Invoice", matched: true,
		},
		{
			name: "namespace without trailing separator", file: "/work/app/lib/Cache/Store.php", root: "/work/app",
			want: `Legacy\Cache`, wantCls: "Store", matched: true,
		},
		{
			name: "root mapping", file: "/work/flat/Models/User.php", root: "/work/flat",
			want: `Flat\Models`, wantCls: "User", matched: true,
		},
		{
			name: "windows path against unix rules", file: `C:\work\app\src\Models\User.php`, root: `C:\work\app`,
			matched: false,
		},
		{
			name: "outside every prefix", file: "/work/app/tests/UserTest.php", root: "/work/app",
			matched: false,
		},
		{
			name: "file not under root", file: "/elsewhere/src/User.php", root: "/work/app",
			matched: false,
		},
		{
			name: "trailing slash on root", file: "/work/app/src/Models/User.php", root: "/work/app/",
			want: `App\Models`, wantCls: "User", matched: true,
		},
		{
			name: "php in directory name", file: "/work/app/src/php.php/Thing.php", root: "/work/app",
			want: `App\php.php`, wantCls: "Thing", matched: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := Identify(tt.file, tt.root, rules)
			require.Equal(t, tt.matched, ok)
			if !tt.matched {
				return
			}
			assert.Equal(t, tt.want, id.Namespace)
			assert.Equal(t, tt.wantCls, id.ClassName)

			ns, ok := Resolve(tt.file, tt.root, rules)
			assert.True(t, ok)
			assert.Equal(t, tt.want, ns)
		})
	}
}

func TestResolve_WindowsPathsNormalized(t *testing.T) {
	rules := table(core.MappingRule{Prefix: "src/", Namespace: `App\`, Root: "C:/work/app"})

	ns, ok := Resolve(`C:\work\app\src\Models\User.php`, `C:\work\app`, rules)
	require.True(t, ok)
	assert.Equal(t, `App\Models`, ns)
}

func TestResolve_RootScoping(t *testing.T) {
	rules := table(
		core.MappingRule{Prefix: "src/", Namespace: `Alpha\`, Root: "/work/alpha"},
		core.MappingRule{Prefix: "src/", Namespace: `Beta\`, Root: "/work/beta"},
	)

	ns, ok := Resolve("/work/alpha/src/Models/User.php", "/work/alpha", rules)
	require.True(t, ok)
	assert.Equal(t, `Alpha\Models`, ns)

	ns, ok = Resolve("/work/beta/src/Models/User.php", "/work/beta", rules)
	require.True(t, ok)
	assert.Equal(t, `Beta\Models`, ns)

	_, ok = Resolve("/work/gamma/src/Models/User.php", "/work/gamma", rules)
	assert.False(t, ok, "a rule from another project must never apply")
}

func TestResolve_EmptyTable(t *testing.T) {
	_, ok := Resolve("/work/app/src/User.php", "/work/app", table())
	assert.False(t, ok)

	_, ok = Resolve("/work/app/src/User.php", "/work/app", nil)
	assert.False(t, ok)
}

func TestClassName(t *testing.T) {
	assert.Equal(t, "User", ClassName("/work/app/src/Models/User.php"))
	assert.Equal(t, "User", ClassName(`C:\app\User.php`))
	assert.Equal(t, "Makefile", ClassName("/work/Makefile"))
	assert.Equal(t, "view.blade", ClassName("/work/view.blade.php"))
}

func TestIsClassFile(t *testing.T) {
	assert.True(t, IsClassFile("/work/app/src/User.php"))
	assert.False(t, IsClassFile("/work/app/src/.php"))
	assert.False(t, IsClassFile("/work/app/src/User.js"))
	assert.False(t, IsClassFile("/work/app/src/User.phpx"))
	assert.False(t, IsClassFile(""))
}
