// Package interceptor wraps methods, field initializers, setters and
// constructors with cross-cutting behaviour without touching their bodies.
//
// # Declaring members
//
// Wrapping is explicit per member. A member is declared with its original
// implementation and an ordered list of wrappers:
//
//	exec, err := interceptor.DeclareMethod(ctx,
//		interceptor.MethodOf[Calc]("exec"),
//		calcExec,
//		[]interceptor.MethodWrapper{interceptor.Max(10), interceptor.Memoize()},
//	)
//
// The list is applied innermost-first: Max wraps calcExec and Memoize wraps
// the result. At call time Memoize runs first, so a cache hit never reaches
// Max and a BOUND_EXCEEDED failure is never cached.
//
// # Wrappers
//
//   - Memoize caches results by encoded arguments, one table per member.
//   - Max fails with BOUND_EXCEEDED when a numeric argument exceeds the limit.
//   - Tag, Readonly and Capitalize rewrite field and setter values.
//   - Singleton routes construction of a type through a Registry.
//
// Errors returned by an original are passed through every layer unchanged.
//
// # Diagnostics
//
// Wrappers report cache-hit, cache-miss, wrapper-installed, singleton-created
// and singleton-reused events to the Tracer given with WithTracer or
// WithRegistryTracer. Tracers never affect control flow.
package interceptor
