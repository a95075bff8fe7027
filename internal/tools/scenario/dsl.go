// Package scenario executes Lua keypress scripts against an in-process
// calculator. Scripts build a Scenario value describing key presses and
// display expectations, which the runner then replays in order.
package scenario

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Shopify/go-lua"
)

const scenarioTypeName = "scenario"

// Scenario is an ordered keypress script with expectations.
type Scenario struct {
	Name  string
	Steps []Step
}

// Step is one scripted action.
type Step struct {
	Kind string
	Args map[string]any
}

// LoadScenarioFromFile runs a Lua script and returns the Scenario it builds.
// The script must return the Scenario value as its result.
func LoadScenarioFromFile(path string) (*Scenario, error) {
	state := lua.NewState()
	lua.OpenLibraries(state)

	registerScenarioType(state)
	registerScenarioConstructor(state)

	if err := lua.LoadFile(state, path, ""); err != nil {
		return nil, fmt.Errorf("load lua: %w", err)
	}
	if err := state.ProtectedCall(0, 1, 0); err != nil {
		return nil, fmt.Errorf("run lua: %w", err)
	}

	if state.TypeOf(-1) != lua.TypeUserData {
		state.Pop(1)
		return nil, fmt.Errorf("scenario script must return Scenario")
	}
	ud := state.ToUserData(-1)
	state.Pop(1)
	scenario, ok := ud.(*Scenario)
	if !ok || scenario == nil {
		return nil, fmt.Errorf("scenario script returned invalid Scenario")
	}
	if strings.TrimSpace(scenario.Name) == "" {
		scenario.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return scenario, nil
}

func registerScenarioType(state *lua.State) {
	lua.NewMetaTable(state, scenarioTypeName)
	state.NewTable()
	lua.SetFunctions(state, scenarioMethods, 0)
	state.SetField(-2, "__index")
	state.Pop(1)
}

func registerScenarioConstructor(state *lua.State) {
	state.NewTable()
	lua.SetFunctions(state, scenarioConstructor, 0)
	state.SetGlobal("Scenario")
}

var scenarioConstructor = []lua.RegistryFunction{
	{Name: "new", Function: scenarioNew},
}

func scenarioNew(state *lua.State) int {
	name := lua.OptString(state, 1, "")
	scenario := &Scenario{Name: name}
	state.PushUserData(scenario)
	lua.SetMetaTableNamed(state, scenarioTypeName)
	return 1
}

var scenarioMethods = []lua.RegistryFunction{
	{Name: "press", Function: scenarioPress},
	{Name: "keys", Function: scenarioKeys},
	{Name: "clear_entry", Function: scenarioClearEntry},
	{Name: "all_clear", Function: scenarioAllClear},
	{Name: "expect_display", Function: scenarioExpectDisplay},
	{Name: "expect_error", Function: scenarioExpectError},
}

// scenarioPress records press("1", "+", "2", "=") with one token per argument.
func scenarioPress(state *lua.State) int {
	scenario := checkScenario(state)
	top := state.Top()
	if top < 2 {
		lua.Errorf(state, "press requires at least one key")
		return 0
	}
	tokens := make([]any, 0, top-1)
	for i := 2; i <= top; i++ {
		tokens = append(tokens, lua.CheckString(state, i))
	}
	appendStep(scenario, "press", map[string]any{"keys": tokens})
	return 0
}

// scenarioKeys records keys("12+3=") where each character is one keypress.
func scenarioKeys(state *lua.State) int {
	scenario := checkScenario(state)
	text := lua.CheckString(state, 2)
	appendStep(scenario, "keys", map[string]any{"text": text})
	return 0
}

func scenarioClearEntry(state *lua.State) int {
	scenario := checkScenario(state)
	appendStep(scenario, "clear_entry", nil)
	return 0
}

func scenarioAllClear(state *lua.State) int {
	scenario := checkScenario(state)
	appendStep(scenario, "all_clear", nil)
	return 0
}

func scenarioExpectDisplay(state *lua.State) int {
	scenario := checkScenario(state)
	want := lua.CheckString(state, 2)
	appendStep(scenario, "expect_display", map[string]any{"want": want})
	return 0
}

func scenarioExpectError(state *lua.State) int {
	scenario := checkScenario(state)
	message := lua.OptString(state, 2, "")
	args := map[string]any{}
	if message != "" {
		args["message"] = message
	}
	appendStep(scenario, "expect_error", args)
	return 0
}

func checkScenario(state *lua.State) *Scenario {
	ud := lua.CheckUserData(state, 1, scenarioTypeName)
	if scenario, ok := ud.(*Scenario); ok && scenario != nil {
		return scenario
	}
	lua.ArgumentError(state, 1, "scenario expected")
	return nil
}

func appendStep(scenario *Scenario, kind string, args map[string]any) {
	if scenario == nil {
		return
	}
	if args == nil {
		args = map[string]any{}
	}
	scenario.Steps = append(scenario.Steps, Step{Kind: kind, Args: args})
}
