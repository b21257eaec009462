// Package projection is the calculation engine. It turns simulations,
// services and payment schedules into month, quarter and year aggregates of
// revenue, social charges, fixed costs, one-shot costs and net result.
//
// Every function is a pure transform of its inputs: nothing here reads the
// system clock, performs I/O or keeps state between calls, so results can be
// memoized by (simulations, period, mode). Malformed input never produces an
// error; it contributes 0 instead.
//
// Two recognition modes are supported. Distributed mode smooths revenue
// evenly over a service's active duration. Actual mode recognizes revenue on
// the dates of the itemized payment schedule, falling back to distributed
// revenue for services that have no schedule.
package projection
