package cli

var ExecuteCommand = execute
