// Package restart applies staged settings by bouncing the MotionInput
// processes.
//
// Apply is the full sequence: terminate every process (client first), wait
// the settle delay, copy the staging document over the live config.json, then
// launch the server and the client. Each step runs regardless of earlier
// failures and is recorded in a Report. Stop and StartMissing expose the
// terminate and launch halves on their own.
package restart
