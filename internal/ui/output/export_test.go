package output

var ProfileFrom = profileFrom
