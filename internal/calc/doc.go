// Package calc implements the calculator evaluation engine: a deterministic
// state machine that consumes discrete keypad actions and produces a bounded
// display string.
//
// Evaluation is precedence-free and strictly left to right. The engine is a
// pure fold: Apply(state, action) returns a complete new State and never
// fails; invalid input is dropped before it reaches the engine and arithmetic
// faults (division by zero, overflow) are contained as sticky error states.
package calc
