package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const junitReport = `<?xml version="1.0" encoding="UTF-8"?>
<testsuites>
  <testsuite name="auth">
    <testcase classname="auth.LoginTest" name="TC-001 login works"/>
    <testcase classname="TC-003.Suite" name="[TC-004] export"/>
    <testcase classname="auth" name="test_TC-005_logout"/>
    <testcase name="unrelated"><failure message="boom"/></testcase>
  </testsuite>
</testsuites>`

func TestCollectReader(t *testing.T) {
	found := map[string]struct{}{}
	require.NoError(t, collectReader(strings.NewReader(junitReport), "TC-", found))

	assert.Len(t, found, 3)
	for _, id := range []string{"TC-001", "TC-003", "TC-004"} {
		assert.Contains(t, found, id)
	}
}

func TestCollectReader_Malformed(t *testing.T) {
	err := collectReader(strings.NewReader("<testsuite><testcase name='TC-1'>"), "TC-", map[string]struct{}{})
	assert.Error(t, err)
}

func TestCollectJUnitTestIDs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "reports/unit.xml", junitReport)
	writeFile(t, dir, "reports/e2e.xml", `<testsuite><testcase name="TC-010 checkout"/><testcase name="TC-001 again"/></testsuite>`)
	broken := writeFile(t, dir, "reports/broken.xml", "<testsuite>")

	ids, skipped, err := CollectJUnitTestIDs(dir, []string{"reports/*.xml"}, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"TC-001", "TC-003", "TC-004", "TC-010"}, ids)
	require.Len(t, skipped, 1)
	assert.True(t, strings.HasPrefix(skipped[0], broken))
}

func TestCollectJUnitTestIDs_NotConfigured(t *testing.T) {
	ids, skipped, err := CollectJUnitTestIDs(t.TempDir(), nil, "TC-")
	require.NoError(t, err)
	assert.Nil(t, ids)
	assert.Nil(t, skipped)
}
