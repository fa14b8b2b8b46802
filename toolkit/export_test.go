package toolkit

// CurrentTimeAt exposes the clock-injected constructor for tests.
var CurrentTimeAt = currentTime
