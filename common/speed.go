package common

// Speeds are in km/h, matching what fleet trackers report.

const SpeedKmhStopped = 0.0
const SpeedKmhCreep = 5.0        // typical low-speed threshold for a "stopped" asset
const SpeedKmhCityDriving = 50.0 // or 31 mph
const SpeedKmhHighway = 91.0     // or 56 mph

// SpeedKmhUnrealistic flags implied speeds no land asset reaches.
// Pairwise implied speeds above this mark a fix as an outlier.
const SpeedKmhUnrealistic = 200.0

// MPSToKMH converts meters-per-second to kilometers-per-hour.
const MPSToKMH = 3.6
