// Package core contains the wearable integration domain model, the lifecycle
// handler registry, the sync-type resolver and the toggle workflow. Adapters
// (command/query runtimes, job queues, SQL hosts) depend on this package; core
// must not depend on them.
package core
