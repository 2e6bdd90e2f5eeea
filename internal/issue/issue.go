// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
)

// DocsURL is where the EnviREAment documentation lives.
const DocsURL HttpLink = "https://github.com/your-username/EnviREAment/docs"

type Id int

const (
	TestRunnerNotFoundId Id = iota + 1
	DemoNotFoundId
	LuaNotFoundId
	WorkspaceNotFoundId
	ConfigLoadFailedId
	ShellNotFoundId
	ScriptExecutionFailedId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id
	mdMsg    MarkdownMsg
	docLinks []HttpLink // every issue points at the docs
	extLinks []HttpLink
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Markdown returns the message with a "See also" section listing the links.
func (i *Issue) Markdown() string {
	var sb strings.Builder
	sb.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		sb.WriteString("\n\n## See also\n")
		for _, link := range slices.Concat(i.docLinks, i.extLinks) {
			sb.WriteString("- <" + string(link) + ">\n")
		}
	}
	return sb.String()
}

// Render renders the issue for a terminal. stylePath is a glamour style name
// ("dark", "light", "notty") or a path to a JSON style file.
func (i *Issue) Render(stylePath string) (string, error) {
	return render(i.Markdown(), stylePath)
}

var (
	render = glamour.Render

	testRunnerNotFoundIssue = &Issue{
		id: TestRunnerNotFoundId,
		mdMsg: `
# EnviREAment test runner not found!

We looked for ` + "`enhanced_test_runner.lua`" + ` and could not find it.

## Search locations (in order of precedence):
1. The workspace root
2. ` + "`node_modules/envireament/`" + ` in the workspace
3. The installed ` + "`envireament`" + ` Python package

## Things you can try:
- Install the package with pip:
~~~
$ envireament install --via pip
~~~

- Or with npm, from the workspace:
~~~
$ envireament install --via npm
~~~

- Run with ` + "`--verbose`" + ` to see why each location was skipped`,
		docLinks: []HttpLink{DocsURL},
	}

	demoNotFoundIssue = &Issue{
		id: DemoNotFoundId,
		mdMsg: `
# EnviREAment demo not found!

We looked for ` + "`examples/main.lua`" + ` in the workspace, in
` + "`node_modules/envireament/`" + ` and in the installed Python package.

## Things you can try:
- Install EnviREAment (see ` + "`envireament install --help`" + `)
- Check which locations are available:
~~~
$ envireament status
~~~`,
		docLinks: []HttpLink{DocsURL},
	}

	luaNotFoundIssue = &Issue{
		id: LuaNotFoundId,
		mdMsg: `
# Lua interpreter not found!

The configured Lua interpreter could not be started.

## Things you can try:
- Install Lua 5.4 and make sure it is on your PATH
- Point ` + "`lua_path`" + ` at the interpreter in your config:
~~~cue
lua_path: "/usr/local/bin/lua5.4"
~~~

- Or override it for a single run:
~~~
$ ENVIREAMENT_LUA_PATH=luajit envireament test
~~~`,
		docLinks: []HttpLink{DocsURL},
		extLinks: []HttpLink{"https://www.lua.org/download.html"},
	}

	workspaceNotFoundIssue = &Issue{
		id: WorkspaceNotFoundId,
		mdMsg: `
# No workspace folder!

EnviREAment commands run inside a project directory.

## Things you can try:
- Change into your project and retry
- Or pass the directory explicitly:
~~~
$ envireament --workspace /path/to/project test
~~~`,
		docLinks: []HttpLink{DocsURL},
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The configuration file could not be read or does not match the schema.

## Things you can try:
- See where configuration is read from:
~~~
$ envireament config path
~~~

- Compare with the defaults:
~~~
$ envireament config show
~~~

- Regenerate a default file with ` + "`envireament config init`",
		docLinks: []HttpLink{DocsURL},
		extLinks: []HttpLink{"https://cuelang.org/docs/"},
	}

	shellNotFoundIssue = &Issue{
		id: ShellNotFoundId,
		mdMsg: `
# Shell not found!

Commands are launched through the system shell and none was found.

## Things you can try:
- Make sure ` + "`sh`" + ` or ` + "`bash`" + ` is on your PATH (PowerShell on Windows)
- Or use the built-in shell:
~~~cue
shell: "virtual"
~~~`,
		docLinks: []HttpLink{DocsURL},
	}

	scriptExecutionFailedIssue = &Issue{
		id: ScriptExecutionFailedId,
		mdMsg: `
# Command failed!

The command could not be started, or it stopped with an error. Its output is
above.

## Things you can try:
- Check that the workspace directory still exists
- Check the quoting of ` + "`lua_path`" + ` in your config
- Re-run the tests with more detail:
~~~
$ envireament test --verbose-output
~~~

- Check that your scripts load in the virtual REAPER environment`,
		docLinks: []HttpLink{DocsURL},
	}

	issues = map[Id]*Issue{
		testRunnerNotFoundIssue.Id():    testRunnerNotFoundIssue,
		demoNotFoundIssue.Id():          demoNotFoundIssue,
		luaNotFoundIssue.Id():           luaNotFoundIssue,
		workspaceNotFoundIssue.Id():     workspaceNotFoundIssue,
		configLoadFailedIssue.Id():      configLoadFailedIssue,
		shellNotFoundIssue.Id():         shellNotFoundIssue,
		scriptExecutionFailedIssue.Id(): scriptExecutionFailedIssue,
	}
)

// Values returns every catalogued issue ordered by Id.
func Values() []*Issue {
	all := maps.Values(issues)
	slices.SortFunc(all, func(a, b *Issue) int { return cmp.Compare(a.id, b.id) })
	return all
}

func Get(id Id) *Issue {
	return issues[id]
}
