/*
Package reveal maps a scroll progress value in [0,1] to the animation state
of each card in a stack that is revealed one card at a time.

The mapping is a pure function of progress, card index and card count. A
Timeline wraps it with the item count, a cache of the last emitted states
for change detection, and a lifecycle that stops ticks once destroyed.
*/
package reveal
