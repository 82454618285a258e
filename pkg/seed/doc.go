// Package seed loads privileges, groups and build servers from a YAML
// document.
//
// A seed document looks like:
//
//	privileges:
//	  - admin
//	  - deploy
//	groups:
//	  - name: release
//	    privileges: [deploy]
//	    members: [jdoe]
//	accounts:
//	  - login: jdoe
//	    privileges: [admin]
//	build_servers:
//	  - address: https://jenkins.example.com
//	    username: porch
//	    access_token: ${JENKINS_TOKEN}
//
// Applying a document is idempotent: existing records are reused, grants
// and memberships are added only once. Accounts are never created by a seed
// since they come from GitHub; unknown accounts are reported as warnings.
package seed
